package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodePincodeRequired           Code = "PINCODE_REQUIRED"
	CodeInvalidPincode            Code = "INVALID_PINCODE"
	CodePincodeNotServiceable     Code = "PINCODE_NOT_SERVICEABLE"
	CodePincodeVerificationFailed Code = "PINCODE_VERIFICATION_FAILED"
	CodeProductNotFound           Code = "PRODUCT_NOT_FOUND"
	CodeColorSelectionRequired    Code = "COLOR_SELECTION_REQUIRED"
	CodeInvalidColor              Code = "INVALID_COLOR"
	CodeColorNotAvailable         Code = "COLOR_NOT_AVAILABLE"
	CodeSizeSelectionRequired     Code = "SIZE_SELECTION_REQUIRED"
	CodeInvalidSize               Code = "INVALID_SIZE"
	CodeSizeOutOfStock            Code = "SIZE_OUT_OF_STOCK"
	CodeOutOfStock                Code = "OUT_OF_STOCK"
	CodeInsufficientStock         Code = "INSUFFICIENT_STOCK"
	CodeExceedsMaxLimit           Code = "EXCEEDS_MAX_USER_LIMIT"
	CodeAddToCartFailed           Code = "ADD_TO_CART_FAILED"
	CodeUnknownAction             Code = "UNKNOWN_ACTION"
	CodeValidation                Code = "VALIDATION_ERROR"
	CodeUnauthorized              Code = "UNAUTHORIZED"
	CodeDependency                Code = "DEPENDENCY_ERROR"
	CodeInternal                  Code = "SYSTEM_ERROR"
)

// Metadata describes how a code is surfaced to callers: the HTTP status the
// transport layer uses, the follow-up hint a conversational caller can act
// on, and whether structured details may leave the process.
type Metadata struct {
	HTTPStatus     int
	ActionRequired string
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodePincodeRequired: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "provide_pincode",
		PublicMessage:  "a delivery pincode is required",
		DetailsAllowed: true,
	},
	CodeInvalidPincode: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "provide_pincode",
		PublicMessage:  "pincode must be exactly 6 digits",
		DetailsAllowed: true,
	},
	CodePincodeNotServiceable: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "provide_pincode",
		PublicMessage:  "delivery is not available for this pincode",
		DetailsAllowed: true,
	},
	CodePincodeVerificationFailed: {
		HTTPStatus:    http.StatusOK,
		Retryable:     true,
		PublicMessage: "could not verify the pincode, please try again",
	},
	CodeProductNotFound: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "provide_product",
		PublicMessage:  "product not found",
		DetailsAllowed: true,
	},
	CodeColorSelectionRequired: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "select_color",
		PublicMessage:  "please choose a color",
		DetailsAllowed: true,
	},
	CodeInvalidColor: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "select_color",
		PublicMessage:  "the requested color is not offered for this product",
		DetailsAllowed: true,
	},
	CodeColorNotAvailable: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "select_color",
		PublicMessage:  "the requested color is currently unavailable",
		DetailsAllowed: true,
	},
	CodeSizeSelectionRequired: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "select_size",
		PublicMessage:  "please choose a size",
		DetailsAllowed: true,
	},
	CodeInvalidSize: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "select_size",
		PublicMessage:  "the requested size is not offered for this product",
		DetailsAllowed: true,
	},
	CodeSizeOutOfStock: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "select_size",
		PublicMessage:  "the requested size is out of stock",
		DetailsAllowed: true,
	},
	CodeOutOfStock: {
		HTTPStatus:     http.StatusOK,
		PublicMessage:  "this product is currently out of stock",
		DetailsAllowed: true,
	},
	CodeInsufficientStock: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "choose_quantity",
		PublicMessage:  "not enough stock for the requested quantity",
		DetailsAllowed: true,
	},
	CodeExceedsMaxLimit: {
		HTTPStatus:     http.StatusOK,
		ActionRequired: "choose_quantity",
		PublicMessage:  "requested quantity exceeds the maximum allowed per order",
		DetailsAllowed: true,
	},
	CodeAddToCartFailed: {
		HTTPStatus:     http.StatusOK,
		Retryable:      true,
		PublicMessage:  "could not add the item to your cart",
		DetailsAllowed: true,
	},
	CodeUnknownAction: {
		HTTPStatus:     http.StatusNotFound,
		PublicMessage:  "unknown action",
		DetailsAllowed: true,
	},
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "commerce backend unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "something went wrong, please try again",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
