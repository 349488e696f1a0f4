package dto

type ProcessOrderInput struct {
	BankReference string `json:"bankReference"`
}

type CompleteOrderInput struct {
	BankAPIResponse string `json:"bankApiResponse"`
}

type FailOrderInput struct {
	Reason string `json:"reason"`
}

// OrderQuery narrows list reads. Limit defaults to 50 and caps at 200.
type OrderQuery struct {
	Status string
	Limit  int
	Offset int
}

type OrderStats struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	Processing      int     `json:"processing"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	TotalAmount     float64 `json:"totalAmount"`
	CompletedAmount float64 `json:"completedAmount"`
}
