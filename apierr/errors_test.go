package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/vitalk/apify/apierr"
)

func TestNewDerivesNameFromStatusText(t *testing.T) {
	err := apierr.New(http.StatusNotFound, "nothing here")
	if err.Name != "Not Found" {
		t.Fatalf("expected name %q, got %q", "Not Found", err.Name)
	}
	if err.Code != http.StatusNotFound {
		t.Fatalf("expected code 404, got %d", err.Code)
	}
	if err.Description != "nothing here" {
		t.Fatalf("unexpected description %q", err.Description)
	}
}

func TestNamed(t *testing.T) {
	err := apierr.Named(418, "Teapot", "short and stout")
	if err.Name != "Teapot" {
		t.Fatalf("expected explicit name, got %q", err.Name)
	}
	want := "418 Teapot: short and stout"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestWithDescriptionDerivesCopy(t *testing.T) {
	derived := apierr.ErrUnauthorized.WithDescription("denied")
	if derived.Description != "denied" {
		t.Fatalf("expected derived description, got %q", derived.Description)
	}
	if derived == apierr.ErrUnauthorized {
		t.Fatal("expected a copy, got the shared value")
	}
	if apierr.ErrUnauthorized.Description == "denied" {
		t.Fatal("predefined error was mutated")
	}
	if derived.Code != apierr.ErrUnauthorized.Code {
		t.Fatal("expected code to be preserved")
	}
}

func TestFromUnwrapsAPIErrors(t *testing.T) {
	wrapped := fmt.Errorf("check failed: %w", apierr.ErrNotAcceptable)

	apiErr, ok := apierr.From(wrapped)
	if !ok {
		t.Fatal("expected wrapped API error to be recognized")
	}
	if apiErr.Code != http.StatusNotAcceptable {
		t.Fatalf("expected 406, got %d", apiErr.Code)
	}

	if _, ok := apierr.From(errors.New("boom")); ok {
		t.Fatal("plain errors must not be recognized")
	}
}

func TestPredefinedCodes(t *testing.T) {
	cases := map[*apierr.Error]int{
		apierr.ErrNotFound:       http.StatusNotFound,
		apierr.ErrUnauthorized:   http.StatusUnauthorized,
		apierr.ErrNotAcceptable:  http.StatusNotAcceptable,
		apierr.ErrNotImplemented: http.StatusNotImplemented,
	}
	for err, code := range cases {
		if err.Code != code {
			t.Fatalf("expected %d, got %d for %q", code, err.Code, err.Name)
		}
		if err.Description == "" {
			t.Fatalf("expected description for %q", err.Name)
		}
	}
}
