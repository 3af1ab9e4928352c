package dal

// RawInput defines the canonical car record submitted through the prediction form.
// FirstHand and NumDoors are optional and stay nil when the form omits them.
type RawInput struct {
	Year        int     `json:"year" form:"year" validate:"yearrange"`
	Mileage     float64 `json:"mileage" form:"mileage" validate:"gte=0"`
	EnginePower int     `json:"engine_power" form:"engine_power" validate:"gt=0"`
	Condition   string  `json:"condition" form:"condition"`
	Make        string  `json:"make" form:"make"`
	Model       string  `json:"model" form:"model"`
	Gearbox     string  `json:"gearbox" form:"gearbox"`
	Fuel        string  `json:"fuel" form:"fuel"`
	FirstHand   *string `json:"first_hand,omitempty" form:"first_hand" validate:"omitempty,oneof=Oui Non"`
	NumDoors    *int    `json:"num_doors,omitempty" form:"num_doors" validate:"omitempty,oneof=3 4 5"`
}

// Listing defines one row of the reference dataset
type Listing struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	Condition string `json:"condition,omitempty"`
}

// PredictionResponse defines the HTTP response struct of a prediction.
// Success is always serialized; Error is set only when Success is false.
type PredictionResponse struct {
	Success bool   `json:"success"`
	Linear  string `json:"linear_prediction,omitempty"`
	Lasso   string `json:"lasso_prediction,omitempty"`
	XGBoost string `json:"xgboost_prediction,omitempty"`
	Average string `json:"average_prediction,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds an unsuccessful PredictionResponse carrying msg
func Failure(msg string) PredictionResponse {
	return PredictionResponse{Success: false, Error: msg}
}

// LandingResponse defines the payload of the index route
type LandingResponse struct {
	Ready      bool     `json:"ready"`
	Makes      []string `json:"makes,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Message    string   `json:"message,omitempty"`
}
