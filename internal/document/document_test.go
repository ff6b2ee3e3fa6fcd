package document_test

import (
	"strings"
	"testing"

	"github.com/onfly/isp-portal-bff-go/internal/document"
)

func TestValidateCPF_Valid(t *testing.T) {
	if !document.ValidateCPF("123.456.789-09") {
		t.Error("expected 123.456.789-09 to be valid")
	}
	if !document.ValidateCPF("12345678909") {
		t.Error("expected bare digits to be valid")
	}
}

func TestValidateCPF_WrongCheckDigits(t *testing.T) {
	if document.ValidateCPF("123.456.789-00") {
		t.Error("expected wrong check digits to be rejected")
	}
}

func TestValidateCPF_RepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		seq := strings.Repeat(string(d), 11)
		if document.ValidateCPF(seq) {
			t.Errorf("expected repeated sequence %s to be invalid", seq)
		}
	}
}

func TestValidateCPF_WrongLength(t *testing.T) {
	if document.ValidateCPF("1234567890") {
		t.Error("expected 10 digits to be invalid")
	}
	if document.ValidateCPF("123456789091") {
		t.Error("expected 12 digits to be invalid")
	}
	if document.ValidateCPF("") {
		t.Error("expected empty input to be invalid")
	}
}

func TestValidateCNPJ_Valid(t *testing.T) {
	if !document.ValidateCNPJ("11.222.333/0001-81") {
		t.Error("expected 11.222.333/0001-81 to be valid")
	}
	if !document.ValidateCNPJ("11222333000181") {
		t.Error("expected bare digits to be valid")
	}
}

func TestValidateCNPJ_RepeatedDigits(t *testing.T) {
	if document.ValidateCNPJ("11.111.111/1111-11") {
		t.Error("expected repeated sequence to be invalid")
	}
}

func TestValidateCNPJ_WrongCheckDigits(t *testing.T) {
	if document.ValidateCNPJ("11.222.333/0001-80") {
		t.Error("expected wrong check digit to be rejected")
	}
}

func TestValidate_Dispatch(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"123.456.789-09", true},    // 11 digits → CPF path
		{"11.222.333/0001-81", true}, // 14 digits → CNPJ path
		{"123.456.789-00", false},
		{"invalid", false},
		{"", false},
		{"123456", false},
	}
	for _, tc := range cases {
		if got := document.Validate(tc.in); got != tc.want {
			t.Errorf("Validate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := document.FormatCPF("12345678909"); got != "123.456.789-09" {
		t.Errorf("FormatCPF = %q", got)
	}
	if got := document.FormatCNPJ("11222333000181"); got != "11.222.333/0001-81" {
		t.Errorf("FormatCNPJ = %q", got)
	}
	// Wrong length passes through untouched
	if got := document.FormatCPF("123"); got != "123" {
		t.Errorf("FormatCPF short input = %q", got)
	}
	if got := document.Format("11222333000181"); got != "11.222.333/0001-81" {
		t.Errorf("Format dispatch = %q", got)
	}
}

func TestMask(t *testing.T) {
	if got := document.Mask("123.456.789"); got != "999.999.999-99" {
		t.Errorf("expected CPF mask, got %q", got)
	}
	if got := document.Mask("112223330001"); got != "99.999.999/9999-99" {
		t.Errorf("expected CNPJ mask, got %q", got)
	}
}

func TestDetectKind(t *testing.T) {
	if document.DetectKind("123.456.789-09") != document.KindCPF {
		t.Error("expected cpf")
	}
	if document.DetectKind("11.222.333/0001-81") != document.KindCNPJ {
		t.Error("expected cnpj")
	}
	if document.DetectKind("abc") != document.KindUnknown {
		t.Error("expected unknown")
	}
}
