package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/devbyharshit/collab-khata/internal/dashboard"
	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/engine"
	"github.com/devbyharshit/collab-khata/internal/ledger"
	"github.com/devbyharshit/collab-khata/internal/repo"
	"github.com/devbyharshit/collab-khata/internal/workflow"
)

// Config for the HTTP API handler.
type Config struct {
	Engine    engine.Engine
	BasePath  string
	Auth      AuthConfig
	UploadDir string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"invalid_transition"`
	Message string         `json:"message" example:"invalid transition Lead -> Paid"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the required error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Collab Khata API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope above.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(basePath, cfg.Auth, cfg.Engine.Repo))
	hcfg := huma.DefaultConfig("Collab Khata API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerAuth(group, cfg.Engine, cfg.Auth)
	registerBrands(group, cfg.Engine)
	registerCollaborations(group, cfg.Engine)
	registerPayments(group, cfg.Engine)
	registerDashboard(group, cfg.Engine)
	registerConversations(group, cfg.Engine)
	registerFiles(router, basePath, cfg)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var transition workflow.InvalidTransitionError
	if errors.As(err, &transition) {
		return newAPIError(http.StatusBadRequest, "invalid_transition", err.Error(), map[string]any{"from": transition.From, "to": transition.To})
	}
	var incomplete workflow.PaymentIncompleteError
	if errors.As(err, &incomplete) {
		return newAPIError(http.StatusBadRequest, "payment_incomplete", err.Error(), map[string]any{"expectation_id": incomplete.ExpectationID, "status": incomplete.Status})
	}
	var terminal workflow.TerminalStateError
	if errors.As(err, &terminal) {
		return newAPIError(http.StatusConflict, "terminal_state", err.Error(), nil)
	}
	var amount ledger.InvalidAmountError
	if errors.As(err, &amount) {
		return newAPIError(http.StatusBadRequest, "invalid_amount", err.Error(), map[string]any{"field": amount.Field})
	}
	var validation engine.ValidationError
	if errors.As(err, &validation) {
		return newAPIError(http.StatusBadRequest, "bad_request", err.Error(), map[string]any{"field": validation.Field})
	}
	var conflict engine.ConflictError
	if errors.As(err, &conflict) {
		return newAPIError(http.StatusConflict, "conflict", err.Error(), nil)
	}
	if errors.Is(err, engine.ErrBadCredentials) {
		return newAPIError(http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Collab Khata API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt; or X-Api-Key.
    </p>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerAuth(api huma.API, e engine.Engine, authCfg AuthConfig) {
	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a new user",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body RegisterRequest `json:"body"`
	}) (*struct {
		Body TokenResponse `json:"body"`
	}, error) {
		u, err := e.Register(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := signToken(authCfg.JWTSecret, u.ID, authCfg.tokenTTL(), e.Now().UTC())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TokenResponse `json:"body"`
		}{Body: TokenResponse{Token: token, User: u}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Exchange credentials for a token",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body LoginRequest `json:"body"`
	}) (*struct {
		Body TokenResponse `json:"body"`
	}, error) {
		u, err := e.Authenticate(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := signToken(authCfg.JWTSecret, u.ID, authCfg.tokenTTL(), e.Now().UTC())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TokenResponse `json:"body"`
		}{Body: TokenResponse{Token: token, User: u}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current principal",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body WhoAmIResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		u, err := e.Repo.GetUser(ctx, userID)
		if err != nil {
			return nil, handleError(err)
		}
		principal, _ := principalFromContext(ctx)
		return &struct {
			Body WhoAmIResponse `json:"body"`
		}{Body: WhoAmIResponse{UserID: u.ID, Email: u.Email, Source: principal.Source}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-api-key",
		Method:        http.MethodPost,
		Path:          "/auth/api-keys",
		Summary:       "Issue an API key",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body CreateAPIKeyRequest `json:"body"`
	}) (*struct {
		Body APIKeyResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		key, plaintext, err := e.IssueAPIKey(ctx, userID, input.Body.Name)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body APIKeyResponse `json:"body"`
		}{Body: APIKeyResponse{ID: key.ID, Name: key.Name, Key: plaintext, CreatedAt: key.CreatedAt}}, nil
	})
}

func registerBrands(api huma.API, e engine.Engine) {
	type brandPath struct {
		BrandID string `path:"brand_id"`
	}

	huma.Register(api, huma.Operation{
		OperationID:   "create-brand",
		Method:        http.MethodPost,
		Path:          "/brands",
		Summary:       "Create brand",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body CreateBrandRequest `json:"body"`
	}) (*struct {
		Body domain.Brand `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		b, err := e.CreateBrand(ctx, engine.BrandCreateOptions{
			UserID:         userID,
			Name:           input.Body.Name,
			ContactName:    input.Body.ContactName,
			ContactEmail:   input.Body.ContactEmail,
			ContactChannel: input.Body.ContactChannel,
			Notes:          input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Brand `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-brands",
		Method:      http.MethodGet,
		Path:        "/brands",
		Summary:     "List brands",
	}, func(ctx context.Context, input *struct {
		Limit           int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
		CursorCreatedAt string `query:"cursor_created_at"`
		CursorID        string `query:"cursor_id"`
	}) (*struct {
		Body BrandListResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		brands, err := e.ListBrands(ctx, userID, input.Limit, input.CursorCreatedAt, input.CursorID)
		if err != nil {
			return nil, handleError(err)
		}
		if brands == nil {
			brands = []domain.Brand{}
		}
		return &struct {
			Body BrandListResponse `json:"body"`
		}{Body: BrandListResponse{Brands: brands}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-brand",
		Method:      http.MethodGet,
		Path:        "/brands/{brand_id}",
		Summary:     "Get brand",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *brandPath) (*struct {
		Body domain.Brand `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		b, err := e.GetBrand(ctx, userID, input.BrandID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Brand `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-brand",
		Method:      http.MethodPut,
		Path:        "/brands/{brand_id}",
		Summary:     "Update brand",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		brandPath
		Body UpdateBrandRequest `json:"body"`
	}) (*struct {
		Body domain.Brand `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		b, err := e.UpdateBrand(ctx, userID, input.BrandID, repo.BrandPatch{
			Name:           input.Body.Name,
			ContactName:    input.Body.ContactName,
			ContactEmail:   input.Body.ContactEmail,
			ContactChannel: input.Body.ContactChannel,
			Notes:          input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Brand `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-brand",
		Method:        http.MethodDelete,
		Path:          "/brands/{brand_id}",
		Summary:       "Delete brand",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *brandPath) (*struct{}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteBrand(ctx, userID, input.BrandID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerCollaborations(api huma.API, e engine.Engine) {
	type collabPath struct {
		CollabID string `path:"collab_id"`
	}

	huma.Register(api, huma.Operation{
		OperationID:   "create-collaboration",
		Method:        http.MethodPost,
		Path:          "/collaborations",
		Summary:       "Create collaboration",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreateCollaborationRequest `json:"body"`
	}) (*struct {
		Body domain.Collaboration `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		c, err := e.CreateCollaboration(ctx, engine.CollaborationCreateOptions{
			UserID:           userID,
			BrandID:          input.Body.BrandID,
			Title:            input.Body.Title,
			Platform:         input.Body.Platform,
			DeliverablesText: input.Body.DeliverablesText,
			AgreedAmount:     input.Body.AgreedAmount,
			Currency:         input.Body.Currency,
			DeadlineDate:     input.Body.DeadlineDate,
			PostingDate:      input.Body.PostingDate,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Collaboration `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-collaborations",
		Method:      http.MethodGet,
		Path:        "/collaborations",
		Summary:     "List collaborations",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Status          string `query:"status"`
		BrandID         string `query:"brand_id"`
		Platform        string `query:"platform"`
		Limit           int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
		CursorCreatedAt string `query:"cursor_created_at"`
		CursorID        string `query:"cursor_id"`
	}) (*struct {
		Body CollaborationListResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		collabs, err := e.ListCollaborations(ctx, repo.CollaborationFilters{
			UserID:          userID,
			BrandID:         input.BrandID,
			Status:          input.Status,
			Platform:        input.Platform,
			Limit:           input.Limit,
			CursorCreatedAt: input.CursorCreatedAt,
			CursorID:        input.CursorID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		if collabs == nil {
			collabs = []domain.Collaboration{}
		}
		return &struct {
			Body CollaborationListResponse `json:"body"`
		}{Body: CollaborationListResponse{Collaborations: collabs}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-collaboration",
		Method:      http.MethodGet,
		Path:        "/collaborations/{collab_id}",
		Summary:     "Get collaboration",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *collabPath) (*struct {
		Body domain.Collaboration `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		c, err := e.GetCollaboration(ctx, userID, input.CollabID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Collaboration `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-collaboration",
		Method:      http.MethodPut,
		Path:        "/collaborations/{collab_id}",
		Summary:     "Update collaboration fields",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		collabPath
		Body UpdateCollaborationRequest `json:"body"`
	}) (*struct {
		Body domain.Collaboration `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		c, err := e.UpdateCollaboration(ctx, userID, input.CollabID, repo.CollaborationPatch{
			Title:            input.Body.Title,
			Platform:         input.Body.Platform,
			DeliverablesText: input.Body.DeliverablesText,
			AgreedAmount:     input.Body.AgreedAmount,
			Currency:         input.Body.Currency,
			DeadlineDate:     input.Body.DeadlineDate,
			PostingDate:      input.Body.PostingDate,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Collaboration `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-collaboration-status",
		Method:      http.MethodPatch,
		Path:        "/collaborations/{collab_id}/status",
		Summary:     "Transition collaboration status",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		collabPath
		Body ChangeStatusRequest `json:"body"`
	}) (*struct {
		Body domain.Collaboration `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		c, err := e.ChangeCollaborationStatus(ctx, engine.StatusChangeOptions{
			UserID:      userID,
			ID:          input.CollabID,
			Target:      domain.CollaborationStatus(input.Body.Status),
			PostingDate: input.Body.PostingDate,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Collaboration `json:"body"`
		}{Body: c}, nil
	})
}

func registerPayments(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-payment-expectation",
		Method:        http.MethodPost,
		Path:          "/collaborations/{collab_id}/payments",
		Summary:       "Create payment expectation",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		CollabID string                   `path:"collab_id"`
		Body     CreateExpectationRequest `json:"body"`
	}) (*struct {
		Body engine.PaymentView `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		v, err := e.CreatePaymentExpectation(ctx, engine.PaymentExpectationCreateOptions{
			UserID:          userID,
			CollaborationID: input.CollabID,
			ExpectedAmount:  input.Body.ExpectedAmount,
			PromisedDate:    input.Body.PromisedDate,
			PaymentMethod:   input.Body.PaymentMethod,
			Notes:           input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.PaymentView `json:"body"`
		}{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-payment-expectations",
		Method:      http.MethodGet,
		Path:        "/collaborations/{collab_id}/payments",
		Summary:     "List payment expectations with derived status",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		CollabID string `path:"collab_id"`
	}) (*struct {
		Body PaymentListResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		views, err := e.ListPaymentExpectations(ctx, userID, input.CollabID)
		if err != nil {
			return nil, handleError(err)
		}
		if views == nil {
			views = []engine.PaymentView{}
		}
		return &struct {
			Body PaymentListResponse `json:"body"`
		}{Body: PaymentListResponse{Payments: views}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-payment-credit",
		Method:        http.MethodPost,
		Path:          "/payments/{expectation_id}/credits",
		Summary:       "Record a payment credit",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ExpectationID string           `path:"expectation_id"`
		Body          AddCreditRequest `json:"body"`
	}) (*struct {
		Body engine.PaymentView `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		v, err := e.AddPaymentCredit(ctx, engine.PaymentCreditOptions{
			UserID:        userID,
			ExpectationID: input.ExpectationID,
			Amount:        input.Body.CreditedAmount,
			CreditedDate:  input.Body.CreditedDate,
			ReferenceNote: input.Body.ReferenceNote,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.PaymentView `json:"body"`
		}{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-overdue-payments",
		Method:      http.MethodGet,
		Path:        "/payments/overdue",
		Summary:     "List overdue payments",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body OverdueListResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		overdue, err := e.ListOverduePayments(ctx, userID)
		if err != nil {
			return nil, handleError(err)
		}
		if overdue == nil {
			overdue = []engine.OverduePayment{}
		}
		return &struct {
			Body OverdueListResponse `json:"body"`
		}{Body: OverdueListResponse{Overdue: overdue}}, nil
	})
}

func registerDashboard(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard-summary",
		Method:      http.MethodGet,
		Path:        "/dashboard/summary",
		Summary:     "Financial dashboard summary",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body dashboard.Summary `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		s, err := e.DashboardSummary(ctx, userID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body dashboard.Summary `json:"body"`
		}{Body: s}, nil
	})
}

func registerConversations(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-conversation",
		Method:        http.MethodPost,
		Path:          "/collaborations/{collab_id}/conversations",
		Summary:       "Log a conversation",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		CollabID string                 `path:"collab_id"`
		Body     AddConversationRequest `json:"body"`
	}) (*struct {
		Body domain.ConversationLog `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		log, err := e.AddConversationLog(ctx, engine.ConversationLogOptions{
			UserID:          userID,
			CollaborationID: input.CollabID,
			Channel:         domain.CommunicationChannel(input.Body.Channel),
			MessageText:     input.Body.MessageText,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ConversationLog `json:"body"`
		}{Body: log}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-conversations",
		Method:      http.MethodGet,
		Path:        "/collaborations/{collab_id}/conversations",
		Summary:     "List conversations",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		CollabID        string `path:"collab_id"`
		Limit           int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
		CursorCreatedAt string `query:"cursor_created_at"`
		CursorID        string `query:"cursor_id"`
	}) (*struct {
		Body ConversationListResponse `json:"body"`
	}, error) {
		userID, authErr := userIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		logs, err := e.ListConversationLogs(ctx, userID, input.CollabID, input.Limit, input.CursorCreatedAt, input.CursorID)
		if err != nil {
			return nil, handleError(err)
		}
		if logs == nil {
			logs = []domain.ConversationLog{}
		}
		return &struct {
			Body ConversationListResponse `json:"body"`
		}{Body: ConversationListResponse{Conversations: logs}}, nil
	})
}
