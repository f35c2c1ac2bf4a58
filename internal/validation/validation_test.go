package validation

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransactionID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"TXN12345", true},
		{"AB-99887766", true},
		{"12345678", true},
		{"--------", true},
		{"short1", false},
		{"abc def123", false},
		{"TXN_12345", false},
		{"", false},
		{"1234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := TransactionID(tt.id)
			if tt.valid && err != nil {
				t.Errorf("expected %q to be accepted, got %v", tt.id, err)
			}
			if !tt.valid && !errors.Is(err, ErrTransactionID) {
				t.Errorf("expected %q to be rejected, got %v", tt.id, err)
			}
		})
	}
}

func TestOrganiserPassword(t *testing.T) {
	if err := OrganiserPassword(true, "adminSecret1"); err != nil {
		t.Errorf("expected admin-prefixed password to pass, got %v", err)
	}
	if err := OrganiserPassword(true, "Secret1admin"); !errors.Is(err, ErrOrganiserPassword) {
		t.Errorf("expected ErrOrganiserPassword, got %v", err)
	}
	if err := OrganiserPassword(false, "Secret1admin"); err != nil {
		t.Errorf("donor passwords are not bound by the prefix, got %v", err)
	}
}

func TestPasswordStrength(t *testing.T) {
	if err := PasswordStrength("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := PasswordStrength("1234567890"); !errors.Is(err, ErrPasswordNumeric) {
		t.Errorf("expected ErrPasswordNumeric, got %v", err)
	}
	if err := PasswordStrength("correct horse"); err != nil {
		t.Errorf("expected strong password to pass, got %v", err)
	}
}

func TestUsername(t *testing.T) {
	for _, ok := range []string{"asha", "ravi.k", "user@site", "a+b-c_d"} {
		if err := Username(ok); err != nil {
			t.Errorf("expected %q to be valid, got %v", ok, err)
		}
	}
	for _, bad := range []string{"", "has space", "semi;colon"} {
		if err := Username(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

type sampleForm struct {
	Title  string `form:"title" validate:"required,max=5"`
	Email  string `json:"email" validate:"omitempty,email"`
	TxnID  string `form:"transaction_id" validate:"txnid"`
	Rating int    `form:"rating" validate:"gte=1,lte=5"`
}

func TestStruct_FieldNames(t *testing.T) {
	errs := Struct(sampleForm{Title: "too long", Email: "nope", TxnID: "short1", Rating: 9})

	want := map[string]string{
		"title":          "Ensure this value has at most 5 characters.",
		"email":          "Enter a valid email address.",
		"transaction_id": MsgTransactionID,
		"rating":         "Select a valid choice.",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, errs[field])
		}
	}

	if errs := Struct(sampleForm{Title: "ok", TxnID: "TXN12345", Rating: 3}); errs.Err() != nil {
		t.Errorf("expected valid form, got %v", errs)
	}
}

func TestErrors_FirstMessageWins(t *testing.T) {
	errs := Errors{}
	errs.Add("password1", "first")
	errs.Add("password1", "second")
	errs.Check("password2", nil)

	if errs["password1"] != "first" {
		t.Errorf("expected first message to be kept, got %q", errs["password1"])
	}
	if _, ok := errs["password2"]; ok {
		t.Error("nil check should not record an error")
	}

	wrapped := fmt.Errorf("register: %w", errs.Err())
	fields, ok := Fields(wrapped)
	if !ok || fields["password1"] != "first" {
		t.Errorf("expected Fields to unwrap, got %v %v", fields, ok)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(PasswordsMatch("a", "b")); got != MsgPasswordMismatch {
		t.Errorf("expected %q, got %q", MsgPasswordMismatch, got)
	}
	if got := Message(fmt.Errorf("register: %w", ErrUsernameCharacters)); got != MsgUsernameCharacters {
		t.Errorf("expected wrapped error to map to %q, got %q", MsgUsernameCharacters, got)
	}
	if got := Message(errors.New("other")); got != "other" {
		t.Errorf("expected unmapped error text, got %q", got)
	}

	errs := Errors{}
	errs.Check("password1", ErrPasswordTooShort)
	if errs["password1"] != MsgPasswordTooShort {
		t.Errorf("expected Check to record the message, got %q", errs["password1"])
	}
}
