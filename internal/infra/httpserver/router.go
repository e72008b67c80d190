package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bkonan/veilleur/internal/application/analysis"
	appchat "github.com/bkonan/veilleur/internal/application/chat"
	appforces "github.com/bkonan/veilleur/internal/application/forces"
	apprag "github.com/bkonan/veilleur/internal/application/rag"
	appresponses "github.com/bkonan/veilleur/internal/application/responses"
	domai "github.com/bkonan/veilleur/internal/domain/ai"
	domanalysis "github.com/bkonan/veilleur/internal/domain/analysis"
	domforces "github.com/bkonan/veilleur/internal/domain/forces"
	domrag "github.com/bkonan/veilleur/internal/domain/rag"
	domresponses "github.com/bkonan/veilleur/internal/domain/responses"
	"github.com/bkonan/veilleur/internal/middleware"
)

type Router struct {
	analysisSvc  *appanalysis.Service
	chatSvc      *appchat.Service
	responsesSvc *appresponses.Service
	forcesSvc    *appforces.Service
	ragSvc       *apprag.Service
	health       http.HandlerFunc
}

func NewRouter(
	analysisSvc *appanalysis.Service,
	chatSvc *appchat.Service,
	responsesSvc *appresponses.Service,
	forcesSvc *appforces.Service,
	ragSvc *apprag.Service,
	health http.HandlerFunc,
) http.Handler {
	r := &Router{
		analysisSvc:  analysisSvc,
		chatSvc:      chatSvc,
		responsesSvc: responsesSvc,
		forcesSvc:    forcesSvc,
		ragSvc:       ragSvc,
		health:       health,
	}
	mux := chi.NewRouter()

	mux.Get("/health", r.health)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleSubmitAnalysis))
		rt.Get("/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/analyses/current", r.wrap(r.handleCurrentAnalysis))
		rt.Delete("/analyses/current", r.wrap(r.handleClearCurrentAnalysis))
		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
		rt.Delete("/analyses/{id}", r.wrap(r.handleDeleteAnalysis))

		rt.Post("/analysis-ai-chat", r.wrap(r.handleAnalysisChat))
		rt.Post("/rhdpchat", r.wrap(r.handleAssistantChat))

		rt.Post("/responses", r.wrap(r.handleGenerateResponse))
		rt.Get("/responses", r.wrap(r.handleListResponses))
		rt.Get("/responses/current", r.wrap(r.handleCurrentResponse))
		rt.Get("/responses/{id}", r.wrap(r.handleGetResponse))
		rt.Delete("/responses/{id}", r.wrap(r.handleDeleteResponse))
	})

	mux.Post("/add-document", r.wrap(r.handleAddDocument))
	mux.Post("/add-edls", r.wrap(r.handleAddEDLS))
	mux.Post("/add-forces", r.wrap(r.handleAddForces))
	mux.Post("/search", r.wrap(r.handleSearch))
	mux.Post("/answer-question", r.wrap(r.handleAnswerQuestion))
	mux.Get("/document-types", r.wrap(r.handleDocumentTypes))
	mux.Get("/source-types", r.wrap(r.handleSourceTypes))
	mux.Get("/elements-types", r.wrap(r.handleElementTypes))
	mux.Get("/dashboard-summary", r.wrap(r.handleDashboardSummary))

	mux.Post("/parties", r.wrap(r.handleCreateParty))
	mux.Get("/parties", r.wrap(r.handleListParties))
	mux.Get("/parties/{id}", r.wrap(r.handleGetParty))
	mux.Put("/parties/{id}", r.wrap(r.handleUpdateParty))
	mux.Delete("/parties/{id}", r.wrap(r.handleDeleteParty))

	mux.Post("/forces-faiblesses", r.wrap(r.handleCreateElement))
	mux.Get("/forces-faiblesses/{party_id}", r.wrap(r.handleListElements))
	mux.Delete("/forces-faiblesses/{id}", r.wrap(r.handleDeleteElement))

	mux.Post("/media-files", r.wrap(r.handleAddMedia))
	mux.Get("/media-files/{element_id}", r.wrap(r.handleListMedia))
	mux.Delete("/media-files/{id}", r.wrap(r.handleDeleteMedia))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var verr *domanalysis.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, verr.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, domanalysis.ErrNotFound) ||
				errors.Is(err, domforces.ErrNotFound) ||
				errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			if errors.Is(err, domai.ErrTimeout) {
				http.Error(w, "ai provider timeout", http.StatusGatewayTimeout)
				return
			}
			var cerr *domai.CompletionError
			if errors.As(err, &cerr) {
				http.Error(w, cerr.Error(), http.StatusBadGateway)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

//
// ---- analyses ----
//

// POST /api/analyses
func (r *Router) handleSubmitAnalysis(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Content     string `json:"content"`
		ContentType string `json:"content_type"`
		Source      string `json:"source"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	res, err := r.analysisSvc.Submit(req.Context(), body.Content, domanalysis.ContentType(body.ContentType), body.Source)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()
	return writeJSON(w, http.StatusCreated, res)
}

// GET /api/analyses
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.analysisSvc.ListAll())
}

// GET /api/analyses/current
func (r *Router) handleCurrentAnalysis(w http.ResponseWriter, req *http.Request) error {
	snap := r.analysisSvc.Snapshot()
	out := map[string]any{
		"current_request": snap.CurrentRequest,
		"current_result":  snap.CurrentResult,
		"analyzing":       snap.Analyzing,
	}
	if snap.Err != nil {
		out["error"] = snap.Err.Error()
	}
	return writeJSON(w, http.StatusOK, out)
}

// DELETE /api/analyses/current
func (r *Router) handleClearCurrentAnalysis(w http.ResponseWriter, req *http.Request) error {
	r.analysisSvc.ClearCurrent()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /api/analyses/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	request, result, err := r.analysisSvc.Get(domanalysis.RequestID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"request": request,
		"result":  result,
	})
}

// DELETE /api/analyses/{id}
func (r *Router) handleDeleteAnalysis(w http.ResponseWriter, req *http.Request) error {
	r.analysisSvc.Delete(domanalysis.RequestID(chi.URLParam(req, "id")))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

//
// ---- chat ----
//

// POST /api/analysis-ai-chat
func (r *Router) handleAnalysisChat(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	answer, err := r.chatSvc.Ask(req.Context(), body.Message, body.Context)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"aiMessage": answer})
}

// POST /api/rhdpchat
func (r *Router) handleAssistantChat(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	reply, err := r.chatSvc.Assistant(req.Context(), body.Query)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, reply)
}

//
// ---- responses ----
//

// POST /api/responses
func (r *Router) handleGenerateResponse(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisID             string   `json:"analysis_id"`
		SelectedPoints         []string `json:"selected_points"`
		ResponseType           string   `json:"response_type"`
		Tone                   string   `json:"tone"`
		AdditionalInstructions string   `json:"additional_instructions"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	gen, err := r.responsesSvc.Generate(req.Context(), body.AnalysisID, body.SelectedPoints,
		domresponses.ResponseType(body.ResponseType), domresponses.Tone(body.Tone), body.AdditionalInstructions)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, gen)
}

// GET /api/responses
func (r *Router) handleListResponses(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.responsesSvc.ListAll())
}

// GET /api/responses/current
func (r *Router) handleCurrentResponse(w http.ResponseWriter, req *http.Request) error {
	request, response := r.responsesSvc.Current()
	return writeJSON(w, http.StatusOK, map[string]any{
		"current_request":  request,
		"current_response": response,
	})
}

// GET /api/responses/{id}
func (r *Router) handleGetResponse(w http.ResponseWriter, req *http.Request) error {
	request, response, err := r.responsesSvc.Get(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"request":  request,
		"response": response,
	})
}

// DELETE /api/responses/{id}
func (r *Router) handleDeleteResponse(w http.ResponseWriter, req *http.Request) error {
	r.responsesSvc.Delete(chi.URLParam(req, "id"))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

//
// ---- knowledge base ----
//

type searchFilterBody struct {
	DocumentType string `json:"document_type"`
	SourceType   string `json:"source_type"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

func (f *searchFilterBody) toDomain() (domrag.SearchFilter, error) {
	out := domrag.SearchFilter{}
	if f == nil {
		return out, nil
	}
	out.DocumentType = f.DocumentType
	out.SourceType = f.SourceType
	var err error
	if f.DateFrom != "" {
		if out.DateFrom, err = parseDate(f.DateFrom); err != nil {
			return out, &domanalysis.ValidationError{Field: "date_from", Reason: err.Error()}
		}
	}
	if f.DateTo != "" {
		if out.DateTo, err = parseDate(f.DateTo); err != nil {
			return out, &domanalysis.ValidationError{Field: "date_to", Reason: err.Error()}
		}
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /add-document
func (r *Router) handleAddDocument(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		DocID    string            `json:"doc_id"`
		Text     string            `json:"text"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	if err := r.ragSvc.AddDocument(req.Context(), body.DocID, body.Text, body.Metadata); err != nil {
		return err
	}
	middleware.IncrementDocumentsIndexed()
	return writeJSON(w, http.StatusOK, map[string]string{"status": "success", "doc_id": body.DocID})
}

// POST /add-edls
func (r *Router) handleAddEDLS(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		EDLSData apprag.EDLSItem `json:"edls_data"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	docID, err := r.ragSvc.AddEDLS(req.Context(), body.EDLSData)
	if err != nil {
		return err
	}
	middleware.IncrementDocumentsIndexed()
	return writeJSON(w, http.StatusOK, map[string]string{"status": "success", "doc_id": docID})
}

// POST /add-forces
func (r *Router) handleAddForces(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ForceData domforces.StrengthWeakness `json:"force_data"`
		PartyName string                     `json:"party_name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	docID, err := r.ragSvc.AddForces(req.Context(), &body.ForceData, body.PartyName)
	if err != nil {
		return err
	}
	middleware.IncrementDocumentsIndexed()
	return writeJSON(w, http.StatusOK, map[string]string{"status": "success", "doc_id": docID})
}

// POST /search
func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Query    string            `json:"query"`
		NResults int               `json:"n_results"`
		Filters  *searchFilterBody `json:"filters"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}
	filter, err := body.Filters.toDomain()
	if err != nil {
		return err
	}

	matches, err := r.ragSvc.Search(req.Context(), body.Query, middleware.ValidateLimit(body.NResults), filter)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"results": matches})
}

// POST /answer-question
func (r *Router) handleAnswerQuestion(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Question           string            `json:"question"`
		NResultsForContext int               `json:"n_results_for_context"`
		Filters            *searchFilterBody `json:"filters"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}
	filter, err := body.Filters.toDomain()
	if err != nil {
		return err
	}

	answer, err := r.ragSvc.Answer(req.Context(), body.Question, body.NResultsForContext, filter)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, answer)
}

// GET /document-types
func (r *Router) handleDocumentTypes(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{"document_types": domrag.DocumentTypes()})
}

// GET /source-types
func (r *Router) handleSourceTypes(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{"source_types": domrag.SourceTypes()})
}

// GET /elements-types
func (r *Router) handleElementTypes(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, domforces.ElementTypes())
}

//
// ---- forces & faiblesses ----
//

// GET /dashboard-summary
func (r *Router) handleDashboardSummary(w http.ResponseWriter, req *http.Request) error {
	summary, err := r.forcesSvc.DashboardSummary(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, summary)
}

// POST /parties
func (r *Router) handleCreateParty(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Nom         string `json:"nom"`
		Sigle       string `json:"sigle"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	p, err := r.forcesSvc.CreateParty(req.Context(), body.Nom, body.Sigle, body.Description)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, p)
}

// GET /parties
func (r *Router) handleListParties(w http.ResponseWriter, req *http.Request) error {
	parties, err := r.forcesSvc.ListParties(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, parties)
}

// GET /parties/{id}
func (r *Router) handleGetParty(w http.ResponseWriter, req *http.Request) error {
	p, err := r.forcesSvc.GetParty(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// PUT /parties/{id}
func (r *Router) handleUpdateParty(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Nom         string `json:"nom"`
		Sigle       string `json:"sigle"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	p, err := r.forcesSvc.UpdateParty(req.Context(), chi.URLParam(req, "id"), body.Nom, body.Sigle, body.Description)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// DELETE /parties/{id}
func (r *Router) handleDeleteParty(w http.ResponseWriter, req *http.Request) error {
	if err := r.forcesSvc.DeleteParty(req.Context(), chi.URLParam(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /forces-faiblesses
func (r *Router) handleCreateElement(w http.ResponseWriter, req *http.Request) error {
	var body domforces.StrengthWeakness
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: err.Error()}
	}

	e, err := r.forcesSvc.CreateElement(req.Context(), &body)
	if err != nil {
		return err
	}

	// Index the new element in the background, like the original's indexing
	// task. A failure here must not fail the write.
	if r.ragSvc != nil {
		element := *e
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			partyName := ""
			if p, err := r.forcesSvc.GetParty(ctx, element.PartyID); err == nil {
				partyName = p.Nom
			}
			if _, err := r.ragSvc.AddForces(ctx, &element, partyName); err != nil {
				log.Printf("index element %s: %v", element.ID, err)
				return
			}
			middleware.IncrementDocumentsIndexed()
		}()
	}

	return writeJSON(w, http.StatusCreated, e)
}

// GET /forces-faiblesses/{party_id}?type=
func (r *Router) handleListElements(w http.ResponseWriter, req *http.Request) error {
	partyID := chi.URLParam(req, "party_id")
	elementType := domforces.ElementType(req.URL.Query().Get("type"))

	elements, err := r.forcesSvc.ListElements(req.Context(), partyID, elementType)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, elements)
}

// DELETE /forces-faiblesses/{id}
func (r *Router) handleDeleteElement(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.forcesSvc.DeleteElement(req.Context(), id); err != nil {
		return err
	}
	if r.ragSvc != nil {
		if err := r.ragSvc.Remove(req.Context(), "forces_"+id); err != nil {
			log.Printf("deindex element %s: %v", id, err)
		}
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /media-files (multipart: element_id, media_type, importance, file)
func (r *Router) handleAddMedia(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		return &domanalysis.ValidationError{Field: "body", Reason: "invalid multipart form"}
	}

	elementID := req.FormValue("element_id")
	mediaType := req.FormValue("media_type")
	importance := 1
	if v := req.FormValue("importance"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &domanalysis.ValidationError{Field: "importance", Reason: "must be an integer"}
		}
		importance = n
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return &domanalysis.ValidationError{Field: "file", Reason: "missing file part"}
	}
	defer file.Close()

	if err := middleware.ValidateFileName(header.Filename); err != nil {
		return &domanalysis.ValidationError{Field: "file", Reason: err.Error()}
	}

	m, err := r.forcesSvc.AddMedia(req.Context(), elementID, domforces.MediaType(mediaType),
		header.Filename, importance, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, m)
}

// GET /media-files/{element_id}
func (r *Router) handleListMedia(w http.ResponseWriter, req *http.Request) error {
	media, err := r.forcesSvc.ListMedia(req.Context(), chi.URLParam(req, "element_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, media)
}

// DELETE /media-files/{id}
func (r *Router) handleDeleteMedia(w http.ResponseWriter, req *http.Request) error {
	if err := r.forcesSvc.RemoveMedia(req.Context(), chi.URLParam(req, "id")); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
