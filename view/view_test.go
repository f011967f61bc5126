package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"120", "120,00 €"},
		{"1234.5", "1 234,50 €"},
		{"1234567.891", "1 234 567,89 €"},
		{"-50.1", "-50,10 €"},
	}
	for _, tt := range tests {
		if got := Money(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.RequireFromString("0.2")); got != "20 %" {
		t.Errorf("Percent(0.2) = %q", got)
	}
	if got := Percent(decimal.RequireFromString("0.055")); got != "5,5 %" {
		t.Errorf("Percent(0.055) = %q", got)
	}
}

func TestRender_EscapesAndUsesLayout(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{
		"Service": map[string]any{
			"ID": 3, "Type": "<script>x</script>", "ClientName": "Dupont",
			"ScheduledAt": time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC),
			"Status": "confirmed", "OriginAddress": "", "DestinationAddress": "",
			"RequiredStaffCount": 2, "RequiredHandlersCount": 3,
			"Price": decimal.NullDecimal{}, "Description": "",
		},
	}
	if err := Render(&buf, "service.html", data); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("layout not applied")
	}
	if strings.Contains(out, "<script>x</script>") {
		t.Error("service type not escaped")
	}
	if !strings.Contains(out, "04/03/2025 09:30") || !strings.Contains(out, "Dupont") {
		t.Errorf("missing content in %s", out)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	if err := Render(&bytes.Buffer{}, "missing.html", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestDict(t *testing.T) {
	dict := Funcs()["dict"].(func(...any) (map[string]any, error))
	if _, err := dict("a"); err == nil {
		t.Error("odd arguments accepted")
	}
	m, err := dict("a", 1, "b", "x")
	if err != nil || m["a"] != 1 || m["b"] != "x" {
		t.Errorf("dict = %v, %v", m, err)
	}
}
