package model

type Currency struct {
	ID        int64  `json:"id"`
	Address   string `json:"address"`
	PriceFeed string `json:"price_feed"`
	Symbol    string `json:"symbol"`
	Decimals  int    `json:"decimals"`
}

type ApproveCurrencyRequest struct {
	Address   string `json:"address"`
	PriceFeed string `json:"price_feed"`
	Symbol    string `json:"symbol"`
	Decimals  int    `json:"decimals"`
}

type ApproveCurrencyResponse struct {
	Currency Currency `json:"currency"`
}

type RevokeCurrencyRequest struct {
	ID        int64  `json:"id"`
	Address   string `json:"address"`
	PriceFeed string `json:"price_feed"`
}

type RevokeCurrencyResponse struct{}

type GetCurrenciesRequest struct{}

type GetCurrenciesResponse struct {
	Currencies []Currency `json:"currencies"`
}

type IsApprovedCurrencyRequest struct {
	Address string `json:"address"`
}

type IsApprovedCurrencyResponse struct {
	Approved bool `json:"approved"`
}
