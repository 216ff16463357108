package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance, configured to report field names
// by their json tag so errors match what the client actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError names every field that failed projection validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// CreateContainer is the validated shape accepted for inserts. The three
// identifying text fields are required; everything else is optional. Status
// defaults to pending when omitted.
type CreateContainer struct {
	ContainerNumber     string  `json:"container_number" validate:"required"`
	DeparturePort       string  `json:"departure_port" validate:"required"`
	ArrivalPort         string  `json:"arrival_port" validate:"required"`
	DepartureDate       *string `json:"departure_date"`
	ExpectedArrivalDate *string `json:"expected_arrival_date"`
	Status              string  `json:"status" validate:"omitempty,oneof=pending departed in_transit arrived delayed"`
	CargoDescription    *string `json:"cargo_description"`
	TrackingNumber      *string `json:"tracking_number"`
	ShippingLine        *string `json:"shipping_line"`
	Notes               *string `json:"notes"`
	ProductImages       *string `json:"product_images"`
}

// Validate checks the create projection and fills in the default status.
func (c *CreateContainer) Validate() error {
	if err := validate.Struct(c); err != nil {
		return asValidationError(err)
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return nil
}

// UpdateContainer is the validated shape accepted for partial updates. Every
// field is optional; nil means "leave untouched".
type UpdateContainer struct {
	ContainerNumber     *string `json:"container_number" validate:"omitempty,min=1"`
	DeparturePort       *string `json:"departure_port" validate:"omitempty,min=1"`
	ArrivalPort         *string `json:"arrival_port" validate:"omitempty,min=1"`
	DepartureDate       *string `json:"departure_date"`
	ExpectedArrivalDate *string `json:"expected_arrival_date"`
	Status              *string `json:"status" validate:"omitempty,oneof=pending departed in_transit arrived delayed"`
	CargoDescription    *string `json:"cargo_description"`
	TrackingNumber      *string `json:"tracking_number"`
	ShippingLine        *string `json:"shipping_line"`
	Notes               *string `json:"notes"`
	ProductImages       *string `json:"product_images"`
}

// Validate checks the update projection.
func (u *UpdateContainer) Validate() error {
	if err := validate.Struct(u); err != nil {
		return asValidationError(err)
	}
	return nil
}

// Fields returns the column/value pairs the update actually carries, in
// declaration order. An empty result means the payload was a no-op.
func (u *UpdateContainer) Fields() ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, v *string) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}
	add("container_number", u.ContainerNumber)
	add("departure_port", u.DeparturePort)
	add("arrival_port", u.ArrivalPort)
	add("departure_date", u.DepartureDate)
	add("expected_arrival_date", u.ExpectedArrivalDate)
	add("status", u.Status)
	add("cargo_description", u.CargoDescription)
	add("tracking_number", u.TrackingNumber)
	add("shipping_line", u.ShippingLine)
	add("notes", u.Notes)
	add("product_images", u.ProductImages)
	return cols, vals
}

func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
