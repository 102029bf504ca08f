package product

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := Product{Name: "Desk", Price: 10, Stock: 2, OwnerID: "usr-1"}
	if err := Validate(&valid); err != nil {
		t.Errorf("Validate() error = %v for valid product", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Product)
		wantErr error
	}{
		{"empty name", func(p *Product) { p.Name = "" }, ErrInvalidName},
		{"long name", func(p *Product) { p.Name = strings.Repeat("x", maxNameLength+1) }, ErrInvalidName},
		{"long description", func(p *Product) { p.Description = strings.Repeat("x", maxDescriptionLength+1) }, ErrInvalidDescription},
		{"negative price", func(p *Product) { p.Price = -0.01 }, ErrInvalidPrice},
		{"NaN price", func(p *Product) { p.Price = math.NaN() }, ErrInvalidPrice},
		{"infinite price", func(p *Product) { p.Price = math.Inf(1) }, ErrInvalidPrice},
		{"negative stock", func(p *Product) { p.Stock = -1 }, ErrInvalidStock},
		{"missing owner", func(p *Product) { p.OwnerID = " " }, ErrMissingOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := Validate(&p); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	name := "New Name"
	price := 5.0
	stock := 7

	if err := ValidateUpdate(Update{Name: &name, Price: &price, Stock: &stock}); err != nil {
		t.Errorf("ValidateUpdate() error = %v for valid patch", err)
	}

	if err := ValidateUpdate(Update{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("ValidateUpdate() empty patch error = %v, want ErrEmptyUpdate", err)
	}

	empty := ""
	if err := ValidateUpdate(Update{Name: &empty}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("ValidateUpdate() empty name error = %v, want ErrInvalidName", err)
	}

	negative := -3.0
	if err := ValidateUpdate(Update{Price: &negative}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("ValidateUpdate() negative price error = %v, want ErrInvalidPrice", err)
	}

	badStock := -1
	if err := ValidateUpdate(Update{Stock: &badStock}); !errors.Is(err, ErrInvalidStock) {
		t.Errorf("ValidateUpdate() negative stock error = %v, want ErrInvalidStock", err)
	}
}

func TestUpdate_Empty(t *testing.T) {
	if !(Update{}).Empty() {
		t.Error("zero Update should be Empty")
	}
	s := 1
	if (Update{Stock: &s}).Empty() {
		t.Error("Update with a field should not be Empty")
	}
}

func TestListFilter_Normalize(t *testing.T) {
	tests := []struct {
		in   ListFilter
		want ListFilter
	}{
		{ListFilter{}, ListFilter{Page: 1, Limit: DefaultLimit}},
		{ListFilter{Page: -5, Limit: -1}, ListFilter{Page: 1, Limit: DefaultLimit}},
		{ListFilter{Page: 2, Limit: 50}, ListFilter{Page: 2, Limit: 50}},
		{ListFilter{Page: 1, Limit: 5000}, ListFilter{Page: 1, Limit: MaxLimit}},
	}

	for _, tt := range tests {
		if got := tt.in.normalize(); got != tt.want {
			t.Errorf("normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
