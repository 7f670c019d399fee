package cheftonic

const restaurantBookingInfoQuery = `query RestaurantBookingInfo($b_r_id: ID!) {
  getRestaurantById(b_r_id: $b_r_id) {
    b_r_id
    r_name
    opening {
      from
      to
      open_weekdays
      closing_days
    }
    services {
      rs_id
      name
      is_active
      date_range
      open_weekdays
      starts_at
      ends_at
      booking_config {
        capacity
        closing_time
        in_advance
        online_allowed
        no_show_charge
        min_pax
        max_pax
      }
    }
  }
}`

const createBookRequestMutation = `mutation BookRequest($booking_info: ExtBookRequestInput!) {
  createExtBookRequest(book_request: $booking_info) {
    book_date
    num_pax
    restaurant {
      r_name
    }
  }
}`

const masterDataQuery = `query MasterData($opt_id: String!, $lang: String!) {
  getMasterDataKey(opt_id: $opt_id, lang: $lang) {
    opt_id
    lang
    value
  }
}`
