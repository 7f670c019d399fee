package domain

// Contact stores the guest details sent with a booking request.
type Contact struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty" validate:"required,max=60"`
	Surname string `json:"surname,omitempty" yaml:"surname,omitempty" validate:"omitempty,max=60"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty" validate:"required,email"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty" validate:"required,phone"`
}

// Profile stores saved booking defaults.
type Profile struct {
	Name          string  `json:"name"`
	IsDefault     bool    `json:"is_default"`
	RestaurantKey string  `json:"restaurant_key,omitempty"`
	Contact       Contact `json:"contact"`
	Locale        string  `json:"locale,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
}

// Config stores all local profiles.
type Config struct {
	Profiles []Profile `json:"profiles"`
}
