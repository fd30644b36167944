package enum

/*----------- OrderStatusEnum -----------*/

type OrderStatusEnum string

const (
	ORDER_PENDING   OrderStatusEnum = "pending"
	ORDER_PAID      OrderStatusEnum = "paid"
	ORDER_CANCELLED OrderStatusEnum = "cancelled"
)

func (e OrderStatusEnum) ToString() string {
	return string(e)
}

func (e OrderStatusEnum) IsValid() bool {
	switch e {
	case ORDER_PENDING, ORDER_PAID, ORDER_CANCELLED:
		return true
	}
	return false
}

/*----------- PaymentStatusEnum -----------*/

type PaymentStatusEnum string

const (
	PAYMENT_PENDING   PaymentStatusEnum = "pending"
	PAYMENT_SUCCEEDED PaymentStatusEnum = "succeeded"
	PAYMENT_FAILED    PaymentStatusEnum = "failed"
)

func (e PaymentStatusEnum) ToString() string {
	return string(e)
}

func (e PaymentStatusEnum) IsValid() bool {
	switch e {
	case PAYMENT_PENDING, PAYMENT_SUCCEEDED, PAYMENT_FAILED:
		return true
	}
	return false
}

/*----------- AddressTypeEnum -----------*/

type AddressTypeEnum string

const (
	ADDRESS_HOME   AddressTypeEnum = "home"
	ADDRESS_OFFICE AddressTypeEnum = "office"
	ADDRESS_OTHER  AddressTypeEnum = "other"
)

func (e AddressTypeEnum) ToString() string {
	return string(e)
}

func (e AddressTypeEnum) IsValid() bool {
	switch e {
	case ADDRESS_HOME, ADDRESS_OFFICE, ADDRESS_OTHER:
		return true
	}
	return false
}
