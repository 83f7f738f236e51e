package gadgets

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jd-116/gadget-graphql-api/db"
	"github.com/jd-116/gadget-graphql-api/types"
	"github.com/jd-116/gadget-graphql-api/util"
)

// Routes creates a new Chi router with the read-only routes
// for the gadget resource, at the root level
func Routes(gadgetProvider db.GadgetProvider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(gadgetProvider))
	router.Get("/{id}", GetSingle(gadgetProvider))
	return router
}

// GetAll gets all gadgets from the database,
// with an optional search querystring param matched against names
func GetAll(gadgetProvider db.GadgetProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

		gadgets, err := gadgetProvider.GetAllGadgets(r.Context())
		if err != nil {
			util.Error(w, r, err)
			return
		}

		if search != "" {
			matched := []types.Gadget{}
			for _, gadget := range gadgets {
				if fuzzy.MatchNormalized(search, strings.ToLower(gadget.NameOrEmpty())) {
					matched = append(matched, gadget)
				}
			}
			gadgets = matched
		}

		// Return the list in a JSON object
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]interface{}{
			"gadgets": gadgets,
		})
	}
}

// GetSingle gets a single gadget from the database by its ID
func GetSingle(gadgetProvider db.GadgetProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, r, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		gadget, err := gadgetProvider.GetGadget(r.Context(), id)
		if err != nil {
			util.Error(w, r, err)
			return
		}

		// Return the single gadget as the top-level JSON
		render.Status(r, http.StatusOK)
		render.JSON(w, r, gadget)
	}
}
