package referral

// MyReferralsResponse is the caller's referral list
type MyReferralsResponse struct {
	Items []*View `json:"items"`
	Total int     `json:"total"`
}
