package enum

/*----------- CheckoutStateEnum -----------*/

type CheckoutStateEnum string

const (
	CHECKOUT_IDLE       CheckoutStateEnum = "idle"
	CHECKOUT_PROCESSING CheckoutStateEnum = "processing"
	CHECKOUT_SUCCEEDED  CheckoutStateEnum = "succeeded"
	CHECKOUT_FAILED     CheckoutStateEnum = "failed"
)

func (e CheckoutStateEnum) ToString() string {
	return string(e)
}

func (e CheckoutStateEnum) IsValid() bool {
	switch e {
	case CHECKOUT_IDLE, CHECKOUT_PROCESSING, CHECKOUT_SUCCEEDED, CHECKOUT_FAILED:
		return true
	}
	return false
}

// CanSubmit reports whether a payment submission may start from this state.
func (e CheckoutStateEnum) CanSubmit() bool {
	return e == CHECKOUT_IDLE || e == CHECKOUT_FAILED
}
