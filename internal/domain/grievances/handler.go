package grievances

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/domain/status"
	"civic-grievances/internal/middleware"
	"civic-grievances/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, feed *Feed) {
	r.Get("/statuses", listStatusesHandler())

	r.Route("/grievances", func(gr chi.Router) {
		gr.Post("/", createGrievanceHandler(svc))
		gr.Get("/", listGrievancesHandler(svc))
		gr.Get("/stats", statsHandler(svc))
		gr.Get("/search", searchHandler(svc))
		gr.Get("/export.csv", exportHandler(svc))
		gr.Get("/stream", streamHandler(svc, feed))
		gr.Post("/bulk", bulkHandler(svc))

		gr.Get("/{id}", getGrievanceHandler(svc))
		gr.Patch("/{id}", updateGrievanceHandler(svc))
		gr.Delete("/{id}", deleteGrievanceHandler(svc))
	})
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

// createGrievanceRequest es el cuerpo JSON para reportar un reclamo (sin foto).
type createGrievanceRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    Category        `json:"category" enums:"pothole,streetlight,garbage,water,drainage,electricity,traffic,other"`
	Urgency     Urgency         `json:"urgency" enums:"low,medium,high"`
	Location    locationRequest `json:"location"`
}

type createGrievanceResponse struct {
	ID           string            `json:"id"`
	PhotoDropped bool              `json:"photoDropped"`
	Grievance    grievanceResponse `json:"grievance"`
}

// grievanceResponse agrega datos derivados del registro de estados.
type grievanceResponse struct {
	Grievance
	Progress    int             `json:"progress"`
	StatusInfo  status.Info     `json:"statusInfo"`
	AllowedNext []status.Status `json:"allowedNext"`
}

type listGrievancesResponse struct {
	Items   []grievanceResponse `json:"items"`
	Total   int                 `json:"total"`
	Offset  int                 `json:"offset"`
	Limit   int                 `json:"limit"`
	Summary Summary             `json:"summary"`
}

type statsResponse struct {
	Summary
	ResolutionRate int `json:"resolutionRate"`
}

// updateGrievanceRequest: campos nil no se modifican.
type updateGrievanceRequest struct {
	Status     *string `json:"status"`
	Urgency    *string `json:"urgency"`
	Category   *string `json:"category"`
	AdminNotes *string `json:"adminNotes"`
	Note       string  `json:"note"`
	Force      bool    `json:"force"`
}

type bulkRequest struct {
	Action string   `json:"action" enums:"update-status,delete"`
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
	Note   string   `json:"note"`
	Force  bool     `json:"force"`
}

type bulkResponse struct {
	Action  string `json:"action"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Deleted int    `json:"deleted"`
}

type snapshotEvent struct {
	Items   []grievanceResponse `json:"items"`
	Summary Summary             `json:"summary"`
}

// listStatusesHandler godoc
// @Summary Catálogo de estados
// @Description Devuelve los estados en orden de presentación con su etiqueta, color, ícono y transiciones permitidas.
// @Tags statuses
// @Produce json
// @Success 200 {array} statusResponse
// @Router /statuses [get]
func listStatusesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := make([]statusResponse, 0, len(status.All()))
		for _, info := range status.Catalog() {
			out = append(out, statusResponse{
				Info:        info,
				Progress:    Progress(info.Value),
				AllowedNext: status.AllowedNext(info.Value),
				Terminal:    status.IsTerminal(info.Value),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type statusResponse struct {
	status.Info
	Progress    int             `json:"progress"`
	AllowedNext []status.Status `json:"allowedNext"`
	Terminal    bool            `json:"terminal"`
}

// createGrievanceHandler godoc
// @Summary Reportar reclamo
// @Description Crea un reclamo en estado `submitted`. Acepta JSON o `multipart/form-data` (campos title, description, category, urgency, latitude, longitude, address y archivo `photo` image/* de hasta 5MB). Si la subida de la foto falla, el reclamo se crea sin foto y `photoDropped` es true. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags grievances
// @Accept json,mpfd
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createGrievanceRequest false "Datos del reclamo (JSON)"
// @Param photo formData file false "Foto del problema"
// @Success 201 {object} createGrievanceResponse
// @Failure 400 {string} string "validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "error del store"
// @Router /grievances [post]
func createGrievanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, 2*svc.maxPhoto+1<<20)

		var in SubmitInput
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "multipart/form-data" {
			parsed, err := parseMultipartSubmit(r, svc.maxPhoto)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			in = parsed
		} else {
			var req createGrievanceRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			in = SubmitInput{
				Title:       req.Title,
				Description: req.Description,
				Category:    req.Category,
				Urgency:     req.Urgency,
				Latitude:    req.Location.Latitude,
				Longitude:   req.Location.Longitude,
				Address:     req.Location.Address,
			}
		}
		if in.Photo != nil {
			if c, ok := in.Photo.Body.(interface{ Close() error }); ok {
				defer c.Close()
			}
		}

		res, err := svc.Submit(r.Context(), actor, in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, createGrievanceResponse{
			ID:           res.Grievance.ID,
			PhotoDropped: res.PhotoDropped,
			Grievance:    toResponse(res.Grievance),
		})
	}
}

func parseMultipartSubmit(r *http.Request, maxPhoto int64) (SubmitInput, error) {
	if err := r.ParseMultipartForm(maxPhoto); err != nil {
		return SubmitInput{}, errors.New("invalid multipart form")
	}

	in := SubmitInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    Category(strings.TrimSpace(r.FormValue("category"))),
		Urgency:     Urgency(strings.TrimSpace(r.FormValue("urgency"))),
		Address:     r.FormValue("address"),
	}
	var err error
	if in.Latitude, err = optionalFloat(r.FormValue("latitude")); err != nil {
		return SubmitInput{}, errors.New("latitude must be a finite number")
	}
	if in.Longitude, err = optionalFloat(r.FormValue("longitude")); err != nil {
		return SubmitInput{}, errors.New("longitude must be a finite number")
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return SubmitInput{}, errors.New("invalid photo part")
	default:
		in.Photo = &PhotoInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}
	return in, nil
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	// ParseFloat acepta "NaN" e "Inf".
	if !finite(f) {
		return nil, strconv.ErrSyntax
	}
	return &f, nil
}

// listGrievancesHandler godoc
// @Summary Listar reclamos
// @Description Snapshot ordenado por fecha de creación (más recientes primero). `scope=mine` (default) devuelve los propios; `scope=all` todos. Filtros opcionales; `all` o vacío desactiva cada uno. `summary` se calcula sobre el snapshot completo del scope.
// @Tags grievances
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param scope query string false "mine|all"
// @Param category query string false "Categoría o all"
// @Param status query string false "Estado o all"
// @Param urgency query string false "Urgencia o all"
// @Param q query string false "Texto en título, descripción, nombre del usuario o dirección"
// @Param from query string false "Fecha mínima (RFC3339 o YYYY-MM-DD, inclusiva)"
// @Param to query string false "Fecha máxima (RFC3339 o YYYY-MM-DD, inclusiva)"
// @Param limit query int false "1-200, default 50"
// @Param offset query int false "default 0"
// @Success 200 {object} listGrievancesResponse
// @Failure 400 {string} string "filtros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /grievances [get]
func listGrievancesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		scope, ok := ParseScope(r.URL.Query().Get("scope"))
		if !ok {
			http.Error(w, "scope must be mine or all", http.StatusBadRequest)
			return
		}
		filter, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		limit, offset := parsePage(r)

		snap, err := svc.List(r.Context(), actor, scope)
		if err != nil {
			writeError(w, err)
			return
		}
		matched := filter.Apply(snap)

		page := matched
		if offset >= len(page) {
			page = nil
		} else {
			page = page[offset:]
		}
		if len(page) > limit {
			page = page[:limit]
		}

		writeJSON(w, http.StatusOK, listGrievancesResponse{
			Items:   toResponses(page),
			Total:   len(matched),
			Offset:  offset,
			Limit:   limit,
			Summary: Summarize(snap),
		})
	}
}

// statsHandler godoc
// @Summary Estadísticas de reclamos
// @Description Conteos por estado, prioridad alta y tasa de resolución sobre el snapshot del scope.
// @Tags grievances
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param scope query string false "mine|all"
// @Success 200 {object} statsResponse
// @Failure 401 {string} string "unauthorized"
// @Router /grievances/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		scope, ok := ParseScope(r.URL.Query().Get("scope"))
		if !ok {
			http.Error(w, "scope must be mine or all", http.StatusBadRequest)
			return
		}
		snap, err := svc.List(r.Context(), actor, scope)
		if err != nil {
			writeError(w, err)
			return
		}
		s := Summarize(snap)
		writeJSON(w, http.StatusOK, statsResponse{Summary: s, ResolutionRate: s.ResolutionRate()})
	}
}

// searchHandler godoc
// @Summary Buscar reclamos
// @Description Búsqueda de texto. Usa el índice de búsqueda si está disponible; si no, filtra el snapshot.
// @Tags grievances
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param q query string true "Texto"
// @Param scope query string false "mine|all"
// @Param limit query int false "1-200, default 20"
// @Success 200 {array} grievanceResponse
// @Failure 400 {string} string "q requerido"
// @Failure 401 {string} string "unauthorized"
// @Router /grievances/search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		scope, ok := ParseScope(r.URL.Query().Get("scope"))
		if !ok {
			http.Error(w, "scope must be mine or all", http.StatusBadRequest)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items, err := svc.Search(r.Context(), actor, scope, r.URL.Query().Get("q"), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// exportHandler godoc
// @Summary Exportar reclamos a CSV
// @Description Exporta todos los reclamos que cumplen los filtros. Requiere rol municipal o administrador.
// @Tags grievances
// @Produce text/csv
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param category query string false "Categoría o all"
// @Param status query string false "Estado o all"
// @Param urgency query string false "Urgencia o all"
// @Param q query string false "Texto"
// @Param from query string false "Fecha mínima"
// @Param to query string false "Fecha máxima"
// @Success 200 {string} string "CSV"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /grievances/export.csv [get]
func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !actor.Can(roles.ActionExport) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		filter, err := parseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		snap, err := svc.List(r.Context(), actor, ScopeAll)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ExportFilename(time.Now())))
		w.WriteHeader(http.StatusOK)
		if err := WriteCSV(w, filter.Apply(snap)); err != nil {
			logger.FromContext(r.Context(), nil).Warn("csv export interrupted", logger.Fields{"err": err})
		}
	}
}

// streamHandler godoc
// @Summary Suscripción en vivo
// @Description Server-sent events. Cada evento `snapshot` trae la lista completa del scope (reemplazo, no delta) y su resumen. El primero llega al suscribirse.
// @Tags grievances
// @Produce text/event-stream
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param scope query string false "mine|all"
// @Success 200 {object} snapshotEvent
// @Failure 401 {string} string "unauthorized"
// @Router /grievances/stream [get]
func streamHandler(svc *Service, feed *Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		scope, ok := ParseScope(r.URL.Query().Get("scope"))
		if !ok {
			http.Error(w, "scope must be mine or all", http.StatusBadRequest)
			return
		}
		q, err := svc.queryFor(actor, scope)
		if err != nil {
			writeError(w, err)
			return
		}

		// último snapshot gana; nunca bloquea al feed
		latest := make(chan []Grievance, 1)
		unsubscribe, err := feed.Subscribe(r.Context(), q, func(gs []Grievance) {
			select {
			case <-latest:
			default:
			}
			latest <- gs
		})
		if err != nil {
			writeError(w, err)
			return
		}
		defer unsubscribe()

		rc := http.NewResponseController(w)
		_ = rc.SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		_ = rc.Flush()

		keepAlive := time.NewTicker(25 * time.Second)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
			case gs := <-latest:
				b, err := json.Marshal(snapshotEvent{Items: toResponses(gs), Summary: Summarize(gs)})
				if err != nil {
					return
				}
				if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", b); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// bulkHandler godoc
// @Summary Operación masiva
// @Description `update-status` cambia el estado de todos los ids de forma atómica (rol municipal o admin). `delete` borra todos los ids de forma atómica (solo admin). Si un registro falla, no se escribe ninguno.
// @Tags grievances
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body bulkRequest true "Acción e ids"
// @Success 200 {object} bulkResponse
// @Failure 400 {string} string "validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "grievance not found"
// @Failure 409 {string} string "transición inválida"
// @Router /grievances/bulk [post]
func bulkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req bulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		switch strings.ToLower(strings.TrimSpace(req.Action)) {
		case "update-status":
			st, ok := status.Parse(req.Status)
			if !ok {
				http.Error(w, fmt.Sprintf("unknown status %q", req.Status), http.StatusBadRequest)
				return
			}
			res, err := svc.BulkUpdateStatus(r.Context(), actor, BulkStatusChange{
				IDs: req.IDs, Status: st, Note: req.Note, Force: req.Force,
			})
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, bulkResponse{Action: "update-status", Updated: res.Updated, Skipped: res.Skipped})
		case "delete":
			n, err := svc.BulkDelete(r.Context(), actor, req.IDs)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, bulkResponse{Action: "delete", Deleted: n})
		default:
			http.Error(w, "action must be update-status or delete", http.StatusBadRequest)
		}
	}
}

// getGrievanceHandler godoc
// @Summary Obtener reclamo
// @Description Devuelve el reclamo con su historial, progreso y transiciones permitidas.
// @Tags grievances
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path string true "ID del reclamo"
// @Success 200 {object} grievanceResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "grievance not found"
// @Router /grievances/{id} [get]
func getGrievanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorFrom(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		g, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(g))
	}
}

// updateGrievanceHandler godoc
// @Summary Actualizar reclamo
// @Description Cambia estado, urgencia, categoría y/o notas administrativas. Un cambio de estado agrega exactamente una entrada al historial; si el estado no cambia no se agrega ninguna. Requiere rol municipal o administrador; `force` (solo admin) saltea el flujo permitido.
// @Tags grievances
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path string true "ID del reclamo"
// @Param payload body updateGrievanceRequest true "Campos a cambiar"
// @Success 200 {object} grievanceResponse
// @Failure 400 {string} string "validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "grievance not found"
// @Failure 409 {string} string "transición inválida"
// @Router /grievances/{id} [patch]
func updateGrievanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req updateGrievanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ch := Change{AdminNotes: req.AdminNotes, Note: req.Note, Force: req.Force}
		if req.Status != nil {
			st := status.Status(strings.ToLower(strings.TrimSpace(*req.Status)))
			ch.Status = &st
		}
		if req.Urgency != nil {
			u := Urgency(strings.ToLower(strings.TrimSpace(*req.Urgency)))
			ch.Urgency = &u
		}
		if req.Category != nil {
			c := Category(strings.ToLower(strings.TrimSpace(*req.Category)))
			ch.Category = &c
		}

		g, err := svc.Update(r.Context(), actor, chi.URLParam(r, "id"), ch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(g))
	}
}

// deleteGrievanceHandler godoc
// @Summary Borrar reclamo
// @Description Solo administradores.
// @Tags grievances
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param id path string true "ID del reclamo"
// @Success 204 "borrado"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "grievance not found"
// @Router /grievances/{id} [delete]
func deleteGrievanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func actorFrom(r *http.Request) (Actor, bool) {
	s, ok := middleware.GetSession(r.Context())
	if !ok || strings.TrimSpace(s.Claims.UserID) == "" {
		return Actor{}, false
	}
	return Actor{
		ID:    s.Claims.UserID,
		Name:  s.Claims.Name,
		Email: s.Claims.Email,
		Photo: s.Claims.Picture,
		Role:  s.Role,
	}, true
}

func parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	f := Filter{Search: strings.TrimSpace(q.Get("q"))}

	if v := strings.ToLower(strings.TrimSpace(q.Get("category"))); active(v) {
		if !Category(v).Valid() {
			return Filter{}, fmt.Errorf("unknown category %q", v)
		}
		f.Category = Category(v)
	}
	if v := strings.TrimSpace(q.Get("status")); active(strings.ToLower(v)) {
		st, ok := status.Parse(v)
		if !ok {
			return Filter{}, fmt.Errorf("unknown status %q", v)
		}
		f.Status = st
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("urgency"))); active(v) {
		if !Urgency(v).Valid() {
			return Filter{}, fmt.Errorf("unknown urgency %q", v)
		}
		f.Urgency = Urgency(v)
	}

	var err error
	if f.From, err = parseBound(q.Get("from"), false); err != nil {
		return Filter{}, errors.New("from must be RFC3339 or YYYY-MM-DD")
	}
	if f.To, err = parseBound(q.Get("to"), true); err != nil {
		return Filter{}, errors.New("to must be RFC3339 or YYYY-MM-DD")
	}
	return f, nil
}

// parseBound acepta RFC3339 o una fecha; una fecha "to" cubre el día completo.
func parseBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}

func parsePage(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}

func toResponse(g Grievance) grievanceResponse {
	return grievanceResponse{
		Grievance:   g,
		Progress:    Progress(g.Status),
		StatusInfo:  status.Lookup(g.Status),
		AllowedNext: status.AllowedNext(g.Status),
	}
}

func toResponses(gs []Grievance) []grievanceResponse {
	out := make([]grievanceResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, toResponse(g))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "grievance not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		// el mensaje del colaborador (store, etc.) llega al cliente
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
