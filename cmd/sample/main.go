// Command sample runs a parcel tracking service that exercises every
// major feature of the github.com/specforge/api framework.
//
// Run the server:
//
//	go run ./cmd/sample serve --addr :8080
//
// Generate the OpenAPI document:
//
//	go run ./cmd/sample spec                  — print JSON to stdout
//	go run ./cmd/sample spec --yaml           — print YAML to stdout
//	go run ./cmd/sample spec --out api.json   — write to a file
//
// Then explore:
//
//	GET  http://localhost:8080/openapi.json            — OpenAPI document
//	GET  http://localhost:8080/openapi.yaml            — the same, as YAML
//	GET  http://localhost:8080/docs                    — interactive docs UI
//	GET  http://localhost:8080/metrics                 — Prometheus metrics
//	GET  http://localhost:8080/v1/health               — health check
//	GET  http://localhost:8080/v1/parcels              — list parcels
//	POST http://localhost:8080/v1/parcels              — register a parcel
//	GET  http://localhost:8080/v1/parcels/{id}         — get parcel
//	PUT  http://localhost:8080/v1/parcels/{id}         — update parcel
//	DELETE http://localhost:8080/v1/parcels/{id}       — remove parcel
//	POST http://localhost:8080/v1/parcels/{id}/label   — upload shipping label
//	GET  http://localhost:8080/v1/parcels/{id}/label   — download shipping label
//	GET  http://localhost:8080/v1/tracking             — SSE scan feed
//	GET  http://localhost:8080/v1/admin/stats          — bearer-protected stats
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/specforge/api"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sample",
		Short:         "Parcel tracking reference server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newServeCmd(), newSpecCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := cmd.Flags().GetString("addr")
			if err != nil {
				return err
			}
			withPprof, err := cmd.Flags().GetBool("pprof")
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r := newRouter()
			if withPprof {
				api.Pprof(r, "")
			}
			slog.Info("starting server", "addr", addr)

			if err := r.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Bool("pprof", false, "Mount profiling handlers under /debug/pprof")
	return cmd
}

func newSpecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Print the OpenAPI document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asYAML, err := cmd.Flags().GetBool("yaml")
			if err != nil {
				return err
			}
			outFile, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile) //nolint:gosec // user-provided CLI flag
				if err != nil {
					return err
				}
				defer func() {
					if err := f.Close(); err != nil {
						slog.Error("failed to close output file", "err", err)
					}
				}()
				w = f
			}

			r := newRouter()
			if asYAML {
				return r.WriteSpecYAML(w)
			}
			return r.WriteSpec(w)
		},
	}
	cmd.Flags().Bool("yaml", false, "Emit YAML instead of JSON")
	cmd.Flags().String("out", "", "Output file (defaults to stdout)")
	return cmd
}

// ---------------------------------------------------------------------------
// Router
// ---------------------------------------------------------------------------

func newRouter() *api.Router {
	r := api.New(
		api.WithTitle("Parcel Tracking API"),
		api.WithVersion("1.0.0"),
		api.WithAPIDescription("Registers parcels, tracks their scans, and stores shipping labels."),
		api.WithContact(api.Contact{Name: "Logistics Platform", Email: "platform@example.com"}),
		api.WithLicense(api.License{Name: "MIT", URL: "https://opensource.org/license/mit/"}),
		api.WithServers(
			api.Server{URL: "http://localhost:8080", Description: "Local development"},
		),
		api.WithSecurityScheme("bearerAuth", api.SecurityScheme{
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "JWT issued by the auth service",
		}),
		api.WithTagDescriptions(map[string]string{
			"parcels":   "Parcel registration and lifecycle",
			"ops":       "Operational endpoints",
			"streaming": "Long-lived streaming responses",
		}),
		api.WithEnum[CarrierMode](),
		api.WithEnum[ServiceHealth](),
		api.WithUnion[ParcelEvent]("type",
			api.Variant[ParcelScanned]("parcel.scanned"),
			api.Variant[ParcelDelivered]("parcel.delivered"),
		),
		api.WithValidator(paginationValidator{maxLimit: 100}),
	)

	// Global middleware.
	r.Use(api.Recovery())
	r.Use(api.RequestID())
	r.Use(api.Logger(slog.Default()))
	r.Use(api.Metrics())
	r.Use(api.CORS())
	r.Use(api.RateLimit(api.RateLimitConfig{Rate: 50, Burst: 100}))

	// Spec, docs, and metrics at the root level.
	r.ServeSpec("/openapi.json")
	r.ServeSpecYAML("/openapi.yaml")
	r.ServeDocs("/docs")
	api.Raw(r, http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP, api.OperationInfo{
		Summary: "Prometheus metrics",
		Tags:    []string{"ops"},
		Status:  http.StatusOK,
	})

	// ---------- v1 group ----------

	v1 := r.Group("/v1", api.WithGroupTags("v1"))

	api.Get(v1, "/health", handleHealth,
		api.WithSummary("Health check"),
		api.WithDescription("Reports the current server time and health state."),
		api.WithTags("ops"),
	)

	// Parcel lifecycle.
	api.Get(v1, "/parcels", handleListParcels,
		api.WithSummary("List parcels"),
		api.WithDescription("Returns registered parcels, optionally filtered by carrier mode."),
		api.WithTags("parcels"),
	)
	api.Post(v1, "/parcels", handleRegisterParcel,
		api.WithSummary("Register parcel"),
		api.WithTags("parcels"),
		api.WithErrors(http.StatusConflict),
		api.WithLink("GetParcel", api.Link{
			OperationID: "getV1ParcelsById",
			Description: "Fetch the registered parcel",
			Parameters:  map[string]any{"id": "$response.body#/id"},
		}),
	)
	api.Get(v1, "/parcels/{id}", handleGetParcel,
		api.WithSummary("Get parcel by ID"),
		api.WithTags("parcels"),
	)
	api.Put(v1, "/parcels/{id}", handleUpdateParcel,
		api.WithSummary("Update parcel"),
		api.WithTags("parcels"),
	)
	api.Delete(v1, "/parcels/{id}", handleRemoveParcel,
		api.WithSummary("Remove parcel"),
		api.WithTags("parcels"),
	)

	// Shipping label upload / download.
	api.Post(v1, "/parcels/{id}/label", handleUploadLabel,
		api.WithStatus(http.StatusNoContent),
		api.WithSummary("Upload shipping label"),
		api.WithDescription("Accepts a multipart upload of the parcel's shipping label."),
		api.WithTags("parcels", "files"),
	)
	api.Get(v1, "/parcels/{id}/label", handleDownloadLabel,
		api.WithSummary("Download shipping label"),
		api.WithDescription("Returns the stored shipping label as a binary stream."),
		api.WithTags("parcels", "files"),
	)

	// SSE scan feed.
	api.Get(v1, "/tracking", handleTrackingFeed,
		api.WithSummary("Scan feed"),
		api.WithDescription("Server-Sent Events stream that emits one scan per second."),
		api.WithTags("streaming"),
	)

	// Deprecated endpoint kept for old clients.
	api.Get(v1, "/track", handleLegacyTrack,
		api.WithSummary("Legacy tracking endpoint"),
		api.WithDeprecated(),
		api.WithTags("ops"),
	)

	// ---------- admin group (bearer-protected) ----------

	admin := v1.Group("/admin").Security("bearerAuth")
	admin.Use(requireBearer)
	api.Get(admin, "/stats", handleStats,
		api.WithSummary("Depot statistics"),
		api.WithTags("ops"),
	)

	// Raw handler escape hatch (e.g. WebSocket placeholder).
	api.Raw(r, http.MethodGet, "/v1/ws", handleWebSocket, api.OperationInfo{
		Summary:     "Live scan socket",
		Description: "Placeholder for a WebSocket upgrade. Demonstrates the Raw handler escape hatch.",
		Tags:        []string{"v1", "streaming"},
		Status:      http.StatusSwitchingProtocols,
	})

	// Outgoing webhook: documented but never served. Consumers register a
	// URL and receive this POST whenever a parcel is scanned or delivered.
	hook := api.Post(r.Registry(), "/parcel-events", handleParcelEventHook,
		api.WithSummary("Parcel lifecycle event"),
		api.WithDescription("Delivered to the consumer's registered URL on every scan and delivery."),
	)
	r.Webhook("parcelEvent", hook)

	return r
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

var depot = newParcelStore()

func newParcelStore() *parcelStore {
	now := time.Now()
	return &parcelStore{
		parcels: map[string]*Parcel{
			"1": {ID: "1", Reference: "PKG-1001", Mode: ModeGround, WeightKg: 2.4, CreatedAt: now},
			"2": {ID: "2", Reference: "PKG-1002", Mode: ModeAir, WeightKg: 0.8, CreatedAt: now},
		},
		labels: map[string][]byte{},
		nextID: 3,
	}
}

type parcelStore struct {
	mu      sync.RWMutex
	parcels map[string]*Parcel
	labels  map[string][]byte
	nextID  int
}

func (s *parcelStore) list(mode CarrierMode) []Parcel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Parcel, 0, len(s.parcels))
	for _, p := range s.parcels {
		if mode == "" || p.Mode == mode {
			out = append(out, *p)
		}
	}
	return out
}

func (s *parcelStore) get(id string) (Parcel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parcels[id]
	if !ok {
		return Parcel{}, false
	}
	return *p, true
}

func (s *parcelStore) referenceTaken(ref string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.parcels {
		if p.Reference == ref {
			return true
		}
	}
	return false
}

func (s *parcelStore) register(ref string, mode CarrierMode, weightKg float64) Parcel {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &Parcel{
		ID:        strconv.Itoa(s.nextID),
		Reference: ref,
		Mode:      mode,
		WeightKg:  weightKg,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.parcels[p.ID] = p
	return *p
}

func (s *parcelStore) update(id string, apply func(*Parcel)) (Parcel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parcels[id]
	if !ok {
		return Parcel{}, false
	}
	apply(p)
	return *p, true
}

func (s *parcelStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parcels[id]; !ok {
		return false
	}
	delete(s.parcels, id)
	delete(s.labels, id)
	return true
}

func (s *parcelStore) setLabel(id string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[id] = data
}

func (s *parcelStore) label(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.labels[id]
	return data, ok
}

func (s *parcelStore) stats() (parcels, labels, delivered int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.parcels {
		if p.Delivered {
			delivered++
		}
	}
	return len(s.parcels), len(s.labels), delivered
}

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// CarrierMode is how a parcel travels.
type CarrierMode string

const (
	ModeGround CarrierMode = "ground"
	ModeAir    CarrierMode = "air"
	ModeSea    CarrierMode = "sea"
)

// EnumValues lists the carrier modes, making CarrierMode a named enum
// schema in the document.
func (CarrierMode) EnumValues() []string {
	return []string{string(ModeGround), string(ModeAir), string(ModeSea)}
}

// ServiceHealth is the service health reading.
type ServiceHealth string

// EnumValues lists the health states.
func (ServiceHealth) EnumValues() []string {
	return []string{"ok", "degraded"}
}

// Parcel is the core domain entity.
type Parcel struct {
	ID        string      `json:"id"`
	Reference string      `json:"reference"`
	Mode      CarrierMode `json:"mode"`
	WeightKg  float64     `json:"weight_kg"`
	Delivered bool        `json:"delivered"`
	CreatedAt time.Time   `json:"created_at"`
}

// ParcelEvent is the discriminated union posted to webhook consumers.
type ParcelEvent interface {
	eventType() string
}

// ParcelScanned reports a parcel passing through a depot.
type ParcelScanned struct {
	Type     string    `json:"type"`
	ParcelID string    `json:"parcel_id"`
	Location string    `json:"location"`
	At       time.Time `json:"at"`
}

func (ParcelScanned) eventType() string { return "parcel.scanned" }

// ParcelDelivered reports a completed delivery.
type ParcelDelivered struct {
	Type      string    `json:"type"`
	ParcelID  string    `json:"parcel_id"`
	SignedBy  string    `json:"signed_by"`
	Delivered time.Time `json:"delivered_at"`
}

func (ParcelDelivered) eventType() string { return "parcel.delivered" }

// ---------------------------------------------------------------------------
// Request / Response types
// ---------------------------------------------------------------------------

type HealthResp struct {
	Status ServiceHealth `json:"status" doc:"Current health state"`
	Time   time.Time     `json:"time"`
}

type ListParcelsReq struct {
	Mode   CarrierMode `query:"mode" doc:"Filter by carrier mode"`
	Limit  int         `query:"limit" doc:"Max results" default:"50"`
	Offset int         `query:"offset" doc:"Pagination offset" default:"0"`
}

func (r *ListParcelsReq) PageBounds() (limit, offset int) { return r.Limit, r.Offset }

type ListParcelsResp struct {
	Parcels []Parcel `json:"parcels"`
	Total   int      `json:"total"`
}

// SetHeaders exposes the pre-pagination total as a response header.
func (l *ListParcelsResp) SetHeaders(h http.Header) {
	h.Set("X-Total-Count", strconv.Itoa(l.Total))
}

// ResponseHeaders documents the header SetHeaders emits.
func (*ListParcelsResp) ResponseHeaders() map[string]api.HeaderObj {
	return map[string]api.HeaderObj{
		"X-Total-Count": {
			Description: "Total matching parcels before pagination",
			Schema:      api.JSONSchema{Type: "integer"},
		},
	}
}

type RegisterParcelReq struct {
	Body struct {
		Reference string       `json:"reference" minLength:"1" maxLength:"64" doc:"Customer-facing reference"`
		Mode      *CarrierMode `json:"mode" doc:"Carrier mode, defaults to ground"`
		WeightKg  float64      `json:"weight_kg" minimum:"0" maximum:"1000" doc:"Weight in kilograms"`
	}
}

// Validate rejects carrier modes outside the enum before the handler runs.
func (r *RegisterParcelReq) Validate() error {
	if r.Body.Mode != nil && !slices.Contains(CarrierMode("").EnumValues(), string(*r.Body.Mode)) {
		return api.Errorf(http.StatusUnprocessableEntity, "unknown carrier mode %q", *r.Body.Mode)
	}
	return nil
}

type ParcelByIDReq struct {
	ID string `path:"id" doc:"Parcel ID"`
}

type UpdateParcelReq struct {
	ID   string `path:"id" doc:"Parcel ID"`
	Body struct {
		Reference *string      `json:"reference" doc:"Customer-facing reference"`
		Mode      *CarrierMode `json:"mode" doc:"Carrier mode"`
		Delivered *bool        `json:"delivered" doc:"Delivery flag"`
	}
}

// UploadLabelReq reads the multipart body itself via RawRequest.
type UploadLabelReq struct {
	api.RawRequest
	ID string `path:"id" doc:"Parcel ID"`
}

type StatsResp struct {
	Parcels   int `json:"parcels"`
	Labels    int `json:"labels"`
	Delivered int `json:"delivered"`
}

type ParcelEventMsg struct {
	Body ParcelEvent
}

type LegacyTrackResp struct {
	Message string `json:"message"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func handleHealth(_ context.Context, _ *api.Void) (*HealthResp, error) {
	return &HealthResp{Status: "ok", Time: time.Now()}, nil
}

func handleListParcels(_ context.Context, req *ListParcelsReq) (*ListParcelsResp, error) {
	parcels := depot.list(req.Mode)
	total := len(parcels)

	if req.Offset > len(parcels) {
		parcels = nil
	} else {
		parcels = parcels[req.Offset:]
	}
	if req.Limit > 0 && req.Limit < len(parcels) {
		parcels = parcels[:req.Limit]
	}

	return &ListParcelsResp{Parcels: parcels, Total: total}, nil
}

func handleRegisterParcel(_ context.Context, req *RegisterParcelReq) (*Parcel, error) {
	if depot.referenceTaken(req.Body.Reference) {
		return nil, api.Errorf(http.StatusConflict, "reference %s is already registered", req.Body.Reference)
	}
	mode := ModeGround
	if req.Body.Mode != nil {
		mode = *req.Body.Mode
	}
	p := depot.register(req.Body.Reference, mode, req.Body.WeightKg)
	return &p, nil
}

func handleGetParcel(_ context.Context, req *ParcelByIDReq) (*api.Result[Parcel], error) {
	p, ok := depot.get(req.ID)
	if !ok {
		return nil, api.Errorf(http.StatusNotFound, "parcel %s not found", req.ID)
	}
	return api.OK(p), nil
}

func handleUpdateParcel(_ context.Context, req *UpdateParcelReq) (*Parcel, error) {
	p, ok := depot.update(req.ID, func(p *Parcel) {
		if req.Body.Reference != nil {
			p.Reference = *req.Body.Reference
		}
		if req.Body.Mode != nil {
			p.Mode = *req.Body.Mode
		}
		if req.Body.Delivered != nil {
			p.Delivered = *req.Body.Delivered
		}
	})
	if !ok {
		return nil, api.Errorf(http.StatusNotFound, "parcel %s not found", req.ID)
	}
	return &p, nil
}

func handleRemoveParcel(_ context.Context, req *ParcelByIDReq) (*api.Void, error) {
	if !depot.remove(req.ID) {
		return nil, api.Errorf(http.StatusNotFound, "parcel %s not found", req.ID)
	}
	return &api.Void{}, nil
}

func handleUploadLabel(_ context.Context, req *UploadLabelReq) (*api.Void, error) {
	if _, ok := depot.get(req.ID); !ok {
		return nil, api.Errorf(http.StatusNotFound, "parcel %s not found", req.ID)
	}

	upload, err := api.ParseFileUpload(req.Request, "label")
	if err != nil {
		return nil, api.Errorf(http.StatusBadRequest, "missing label file: %v", err)
	}

	rc, err := upload.Open()
	if err != nil {
		return nil, api.Errorf(http.StatusInternalServerError, "failed to open upload: %v", err)
	}
	defer func() {
		//nolint:errcheck,gosec // best-effort close
		rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, api.Errorf(http.StatusInternalServerError, "failed to read upload: %v", err)
	}

	depot.setLabel(req.ID, data)
	return &api.Void{}, nil
}

func handleDownloadLabel(_ context.Context, req *ParcelByIDReq) (*api.Stream, error) {
	data, ok := depot.label(req.ID)
	if !ok {
		return nil, api.Errorf(http.StatusNotFound, "no label stored for parcel %s", req.ID)
	}

	return &api.Stream{
		ContentType: "application/pdf",
		Status:      http.StatusOK,
		Body:        bytes.NewReader(data),
	}, nil
}

// scanRoute is the depot sequence the demo feed cycles through.
var scanRoute = []string{"Leipzig hub", "Rotterdam port", "Lyon depot", "Madrid depot"}

func handleTrackingFeed(ctx context.Context, _ *api.Void) (*api.SSEStream, error) {
	ch := make(chan api.SSEEvent)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for i := 1; i <= 30; i++ {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				ch <- api.SSEEvent{
					ID:    strconv.Itoa(i),
					Event: "scan",
					Data: map[string]any{
						"seq":      i,
						"location": scanRoute[i%len(scanRoute)],
						"time":     t.Format(time.RFC3339),
					},
				}
			}
		}
	}()

	return &api.SSEStream{Events: ch}, nil
}

func handleStats(_ context.Context, _ *api.Void) (*StatsResp, error) {
	parcels, labels, delivered := depot.stats()
	return &StatsResp{Parcels: parcels, Labels: labels, Delivered: delivered}, nil
}

// handleParcelEventHook exists to type the webhook payload. The route is
// registered on a bare registry, so it is documented but never served.
func handleParcelEventHook(_ context.Context, _ *ParcelEventMsg) (*api.Void, error) {
	return &api.Void{}, nil
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// A real deployment would upgrade the connection here.
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	fmt.Fprintln(w, "Live scan feed not available over plain HTTP; upgrade required.")
	//nolint:errcheck // best-effort response write
	fmt.Fprintf(w, "Requested: %s %s\n", r.Method, r.URL.Path)
}

func handleLegacyTrack(_ context.Context, _ *api.Void) (*LegacyTrackResp, error) {
	return &LegacyTrackResp{Message: "This endpoint is deprecated. Use /v1/parcels/{id} instead."}, nil
}

// ---------------------------------------------------------------------------
// Middleware and validation
// ---------------------------------------------------------------------------

// requireBearer rejects requests without a bearer token. The sample
// accepts any token; a real deployment would verify it.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
			json.NewEncoder(w).Encode(api.ProblemDetail{
				Type:   "about:blank",
				Title:  http.StatusText(http.StatusUnauthorized),
				Status: http.StatusUnauthorized,
				Detail: "missing or malformed bearer token",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pageBounded is implemented by list requests that paginate.
type pageBounded interface {
	PageBounds() (limit, offset int)
}

// paginationValidator applies shared bounds to every paginated request.
type paginationValidator struct {
	maxLimit int
}

func (v paginationValidator) Validate(req any) error {
	p, ok := req.(pageBounded)
	if !ok {
		return nil
	}
	limit, offset := p.PageBounds()
	if limit > v.maxLimit {
		return api.Errorf(http.StatusUnprocessableEntity, "limit must not exceed %d", v.maxLimit)
	}
	if offset < 0 {
		return api.Errorf(http.StatusUnprocessableEntity, "offset must not be negative")
	}
	return nil
}
