package apify_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/vitalk/apify"
	"github.com/vitalk/apify/apierr"
)

func Example() {
	api := apify.New()

	api.Route("/todos", func(r *http.Request) (any, error) {
		return []string{"write docs", "ship"}, nil
	})

	if err := api.RegisterRoutes(); err != nil {
		fmt.Println("publish failed:", err)
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	fmt.Println(rec.Code)
	fmt.Println(rec.Header().Get("Content-Type"))
	fmt.Println(rec.Body.String())
	// Output:
	// 200
	// application/json
	// ["write docs","ship"]
}

func ExampleApify_Preprocessor() {
	api := apify.New()

	api.Route("/secret", func(r *http.Request) (any, error) {
		return "classified", nil
	})
	api.Preprocessor(func(r *http.Request, view apify.ViewFunc) (apify.ViewFunc, error) {
		if r.Header.Get("Authorization") == "" {
			return nil, apierr.ErrUnauthorized.WithDescription("denied")
		}
		return view, nil
	})

	if err := api.RegisterRoutes(); err != nil {
		fmt.Println("publish failed:", err)
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	fmt.Println(rec.Code)
	fmt.Println(rec.Body.String())
	// Output:
	// 401
	// {"error":"Unauthorized","message":"denied"}
}

func ExampleApify_Finalizer() {
	api := apify.New()

	api.Route("/ping", func(r *http.Request) (any, error) {
		return map[string]string{"status": "ok"}, nil
	})
	api.Finalizer(func(r *http.Request, res *apify.Response) (*apify.Response, error) {
		res.Header.Set("X-Rate-Limit", "42")
		return res, nil
	})

	if err := api.RegisterRoutes(); err != nil {
		fmt.Println("publish failed:", err)
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)

	fmt.Println(rec.Code, rec.Header().Get("X-Rate-Limit"))
	// Output:
	// 200 42
}
