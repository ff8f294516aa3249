// Package apiclient is a client-side access layer for a bearer-token
// protected REST backend.
//
// A Client resolves the bearer credential from a TokenProvider, waits out an
// in-flight token refresh by polling the token's expiry claim, performs the
// JSON HTTP call, and normalizes every failure into an *ErrorResponse that
// is routed through a small error classifier. Depending on the failure the
// classifier triggers a re-login redirect, surfaces the error to a UI error
// boundary, or propagates it silently.
//
// Token expiry is read straight out of the compact token's payload segment
// by the token subpackage, without any cryptographic library and without
// verifying the signature. The decoded claims only drive client-side control
// flow; the backend remains the source of truth and will answer 401 when a
// token is actually invalid.
//
// Basic usage:
//
//	client, err := apiclient.New(
//	    apiclient.WithAPIOrigin("https://app.example.com"),
//	    apiclient.WithTokenProvider(provider),
//	    apiclient.WithTokenSource("accessToken"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, _, err := apiclient.Request[User](ctx, client, http.MethodGet, "/users/me", nil)
//	if err != nil {
//	    var apiErr *apiclient.ErrorResponse
//	    if errors.As(err, &apiErr) {
//	        // apiErr.Code / apiErr.Message
//	    }
//	}
//
// Errors a caller wants to handle inline can opt out of the classifier's
// side effects:
//
//	_, err = client.Post(ctx, "/projects", body, apiclient.IgnoreErrors())
//
// Logging, metrics and tracing are pluggable through WithLogger (logrus,
// zerolog and zap adapters are provided), WithMetrics (Prometheus
// implementation included) and WithTracer (OpenTelemetry implementation
// included). All default to no-ops apart from the logger, which falls back
// to the standard library log package.
package apiclient
