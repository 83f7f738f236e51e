package gql

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/rs/zerolog"
)

const graphqlContentType = "application/graphql"

// Request is a single GraphQL operation as sent by a client,
// either as a JSON body or through the query string
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler serves GraphQL operations over GET and POST.
// Execution errors are reported in-band with a 200 status;
// only malformed requests are rejected with 4xx codes
func Handler(schema graphql.Schema, maxBodyBytes int64) http.HandlerFunc {
	// Use a closure to inject the schema
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		var request *Request
		var err error
		switch r.Method {
		case http.MethodGet:
			request, err = requestFromQuery(r)
		default:
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			request, err = requestFromBody(r)
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, r, http.StatusRequestEntityTooLarge, "request body is too large")
				return
			}

			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		if strings.TrimSpace(request.Query) == "" {
			writeError(w, r, http.StatusBadRequest, "must provide a query string")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  request.Query,
			VariableValues: request.Variables,
			OperationName:  request.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.Warn().
				Int("error_count", len(result.Errors)).
				Str("first_error", result.Errors[0].Message).
				Str("operation", request.OperationName).
				Msg("GraphQL operation finished with errors")
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, result)
	}
}

// requestFromQuery reads an operation from the query, variables,
// and operationName query parameters
func requestFromQuery(r *http.Request) (*Request, error) {
	values := r.URL.Query()
	request := &Request{
		Query:         values.Get("query"),
		OperationName: values.Get("operationName"),
	}

	if rawVariables := values.Get("variables"); rawVariables != "" {
		err := render.DecodeJSON(strings.NewReader(rawVariables), &request.Variables)
		if err != nil {
			return nil, errors.New("variables are not a valid JSON object")
		}
	}

	return request, nil
}

// requestFromBody reads an operation from either a JSON body
// or a raw application/graphql body
func requestFromBody(r *http.Request) (*Request, error) {
	mediaType := ""
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, errors.New("invalid Content-Type header")
		}
		mediaType = parsed
	}

	if mediaType == graphqlContentType {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return &Request{Query: string(body)}, nil
	}

	var request Request
	err := render.DecodeJSON(r.Body, &request)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errors.New("request body is not a valid GraphQL JSON request")
	}

	return &request, nil
}

// writeError sends a GraphQL-shaped error response
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, &graphql.Result{
		Errors: []gqlerrors.FormattedError{gqlerrors.NewFormattedError(message)},
	})
}
