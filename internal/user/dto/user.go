package dto

type AddCreditsRequest struct {
	Amount int64 `json:"amount"`
}

type AddCreditsResponse struct {
	Balance int64 `json:"balance"`
}

type RenewPremiumRequest struct {
	Months int `json:"months"`
}
