package domain

// Reason identifies why a coupon was rejected.
type Reason string

const (
	ReasonEmptyCode            Reason = "EMPTY_CODE"
	ReasonNotFound             Reason = "NOT_FOUND"
	ReasonInactive             Reason = "INACTIVE"
	ReasonExpiredOrNotYetValid Reason = "EXPIRED_OR_NOT_YET_VALID"
	ReasonBelowMinimum         Reason = "BELOW_MINIMUM"
	ReasonUsageLimitReached    Reason = "USAGE_LIMIT_REACHED"
)

var reasonMessages = map[Reason]string{
	ReasonEmptyCode:            "Please enter a coupon code",
	ReasonNotFound:             "Invalid coupon code",
	ReasonInactive:             "This coupon is no longer active",
	ReasonExpiredOrNotYetValid: "This coupon has expired or is not yet valid",
	ReasonBelowMinimum:         "Your order does not reach the minimum amount for this coupon",
	ReasonUsageLimitReached:    "This coupon has reached its usage limit",
}

// Rejection is a negative validation outcome. It is a normal result, not an error.
type Rejection struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// NewRejection builds a Rejection with the default message for reason.
func NewRejection(reason Reason) *Rejection {
	return &Rejection{Reason: reason, Message: reasonMessages[reason]}
}

// Result is the outcome of validating a code: exactly one of Coupon and Rejection is set.
type Result struct {
	Coupon    *Coupon    `json:"coupon,omitempty"`
	Rejection *Rejection `json:"rejection,omitempty"`
}

// Valid reports whether the code was accepted.
func (r Result) Valid() bool {
	return r.Coupon != nil && r.Rejection == nil
}

// Accepted wraps a usable coupon.
func Accepted(c *Coupon) Result {
	return Result{Coupon: c}
}

// Rejected wraps a rejection.
func Rejected(r *Rejection) Result {
	return Result{Rejection: r}
}
