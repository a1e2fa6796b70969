package backend

// Wire representations of the remote JSON API.

type wireCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type categoriesResponse struct {
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	Categories []wireCategory `json:"categories"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	ObjectType  string `json:"object_type"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type statusResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

type wireLineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	ObjectType  string  `json:"object_type,omitempty"`
	Category    string  `json:"category,omitempty"`
}

type wireReceiptData struct {
	VendorName  string         `json:"vendor_name"`
	Date        string         `json:"date"`
	TotalAmount float64        `json:"total_amount"`
	Description string         `json:"description"`
	LineItems   []wireLineItem `json:"line_items,omitempty"`
}

type ocrResponse struct {
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
	ErrorType   string           `json:"error_type,omitempty"`
	ReceiptData *wireReceiptData `json:"receipt_data,omitempty"`
}

type suggestRequestBody struct {
	Description string   `json:"description"`
	ObjectType  string   `json:"object_type"`
	Amount      *float64 `json:"amount,omitempty"`
	Vendor      string   `json:"vendor,omitempty"`
}

type suggestResponseBody struct {
	Success           bool           `json:"success"`
	Error             string         `json:"error,omitempty"`
	ErrorType         string         `json:"error_type,omitempty"`
	AllCategories     []wireCategory `json:"all_categories"`
	CreatedCategories []wireCategory `json:"created_categories"`
}
