package models

// Requests for the pair diagnostics endpoints and the evaluation topic.
// Index fields are optional date labels aligned with the values.

type CointegrationRequest struct {
	Series1 []float64 `json:"series_1" validate:"required,min=3,dive,finite"`
	Series2 []float64 `json:"series_2" validate:"required,min=3,dive,finite"`
	Index1  []string  `json:"index_1,omitempty"`
	Index2  []string  `json:"index_2,omitempty"`
	Autolag string    `json:"autolag" default:"AIC" validate:"oneof=AIC BIC t-stat none"`
}

type MeanReversionRequest struct {
	Y      []float64 `json:"y" validate:"required,min=3,dive,finite"`
	X      []float64 `json:"x" validate:"required,min=3,dive,finite"`
	IndexY []string  `json:"index_y,omitempty"`
	IndexX []string  `json:"index_x,omitempty"`
}

type IntegrationOrderRequest struct {
	Series       []float64 `json:"series" validate:"required,min=3,dive,finite"`
	Test         string    `json:"test" default:"ADF" validate:"oneof=ADF KPSS-c KPSS-ct"`
	MaxDiff      int       `json:"max_diff" default:"2" validate:"gte=0,lte=5"`
	Significance float64   `json:"significance" default:"0.05" validate:"gt=0,lt=1"`
}

type HurstRequest struct {
	Series []float64 `json:"series" validate:"required,min=3,dive,finite"`
}

// PairEvaluationRequest drives a full evaluation over HTTP or Kafka.
type PairEvaluationRequest struct {
	SymbolY string    `json:"symbol_y,omitempty"`
	SymbolX string    `json:"symbol_x,omitempty"`
	Y       []float64 `json:"y" validate:"required,min=3,dive,finite"`
	X       []float64 `json:"x" validate:"required,min=3,dive,finite"`
	Index   []string  `json:"index,omitempty"`
	Autolag string    `json:"autolag" default:"AIC" validate:"oneof=AIC BIC t-stat none"`
}

// IntegrationOrderReport answers an IntegrationOrderRequest.
type IntegrationOrderReport struct {
	Finding      IntegrationFinding `json:"finding"`
	MaxDiff      int                `json:"max_diff"`
	Significance float64            `json:"significance"`
}

// HurstReport answers a HurstRequest.
type HurstReport struct {
	Hurst        float64 `json:"hurst_exponent"`
	Observations int     `json:"observations"`
	Regime       string  `json:"regime"`
}
