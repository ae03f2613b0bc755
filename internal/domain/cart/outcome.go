package cart

// Result はコマンドが状態を変えたかどうか。
type Result string

const (
	Applied Result = "APPLIED"
	Ignored Result = "IGNORED"
)

// Reason は Ignored の理由。
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonUnknownItem    Reason = "unknown_item"
	ReasonEmptyProductID Reason = "empty_product_id"
)

// Outcome はカートコマンドの結果。コマンドはエラーを返さない。
type Outcome struct {
	Result   Result `json:"result"`
	Reason   Reason `json:"reason,omitempty"`
	Removed  bool   `json:"removed,omitempty"`
	Quantity int    `json:"quantity"`
}

func (o Outcome) Applied() bool { return o.Result == Applied }

func applied(qty int) Outcome {
	return Outcome{Result: Applied, Quantity: qty}
}

func removed() Outcome {
	return Outcome{Result: Applied, Removed: true}
}

func ignored(reason Reason) Outcome {
	return Outcome{Result: Ignored, Reason: reason}
}
