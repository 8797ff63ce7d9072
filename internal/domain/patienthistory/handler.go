package patienthistory

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/ehr/records/internal/platform/auth"
	"github.com/ehr/records/pkg/pagination"
)

// maxBodyBytes caps a single history item payload.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON error envelope of every failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:patientId/history-items", h.ListByPatient)

	items := api.Group("/history-items")
	items.POST("", h.Create)
	items.GET("/:type/:id", h.Get)
	items.PUT("/:type/:id", h.Update)
	items.DELETE("/:type/:id", h.Delete)
	items.GET("/:type/:id/snapshots", h.ListSnapshots)
	items.GET("/:type/:id/lineage", h.Lineage)
}

// ListByPatient is the display listing of a patient's items: deleted items
// are hidden unless includeDeleted=true and masked items show only their
// identity.
func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)
	if err != nil || patientID <= 0 {
		return badRequest("INVALID_PARAM", "invalid patientId")
	}
	includeDeleted := c.QueryParam("includeDeleted") == "true"
	items, err := h.svc.ListItems(c.Request().Context(), patientID, includeDeleted)
	if err != nil {
		return httpError(err)
	}
	data, err := EncodeView(items)
	if err != nil {
		return httpError(err)
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (h *Handler) Get(c echo.Context) error {
	t, id, err := itemParams(c)
	if err != nil {
		return err
	}
	item, err := h.svc.GetItem(c.Request().Context(), t, id)
	if err != nil {
		return httpError(err)
	}
	data, err := EncodeLive(item)
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set("ETag", etag(item.Hash()))
	return c.JSONBlob(http.StatusOK, data)
}

func (h *Handler) Create(c echo.Context) error {
	item, err := decodeBody(c)
	if err != nil {
		return err
	}
	snap, err := h.svc.CreateItem(c.Request().Context(), item, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderLocation,
		fmt.Sprintf("%s/%s/%d", c.Path(), item.HistoryType(), item.Base().ID))
	return snapshotResponse(c, http.StatusCreated, snap)
}

func (h *Handler) Update(c echo.Context) error {
	t, id, err := itemParams(c)
	if err != nil {
		return err
	}
	item, err := decodeBody(c)
	if err != nil {
		return err
	}
	snap, err := h.svc.UpdateItem(c.Request().Context(), t, id, item, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return httpError(err)
	}
	return snapshotResponse(c, http.StatusOK, snap)
}

func (h *Handler) Delete(c echo.Context) error {
	t, id, err := itemParams(c)
	if err != nil {
		return err
	}
	snap, err := h.svc.DeleteItem(c.Request().Context(), t, id, auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return httpError(err)
	}
	return snapshotResponse(c, http.StatusOK, snap)
}

func (h *Handler) ListSnapshots(c echo.Context) error {
	t, id, err := itemParams(c)
	if err != nil {
		return err
	}
	snaps, err := h.svc.ListSnapshots(c.Request().Context(), t, id)
	if err != nil {
		return httpError(err)
	}
	pg := pagination.FromContext(c)
	data, err := EncodeSnapshotList(pagination.Page(snaps, pg))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(json.RawMessage(data), len(snaps), pg))
}

// LineageResponse is the body of the tracking lineage endpoint.
type LineageResponse struct {
	TrackingID int64           `json:"trackingId"`
	Current    *int64          `json:"current"`
	Snapshots  json.RawMessage `json:"snapshots"`
}

func (h *Handler) Lineage(c echo.Context) error {
	t, id, err := itemParams(c)
	if err != nil {
		return err
	}
	if t != TypeTracking {
		return badRequest("TYPE_MISMATCH", fmt.Sprintf("%s items have no lineage", t))
	}
	lineage, err := h.svc.TrackingLineage(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	resp := LineageResponse{TrackingID: id}
	if cur := lineage.Current(); cur != nil {
		resp.Current = &cur.ID
	}
	if c.QueryParam("majorOnly") == "true" {
		lineage = lineage.MajorChanges()
	}
	if c.QueryParam("visibleOnly") == "true" {
		lineage = lineage.Visible()
	}
	snaps := make([]Snapshot, len(lineage))
	for i, s := range lineage {
		snaps[i] = s
	}
	if resp.Snapshots, err = EncodeSnapshotList(snaps); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func itemParams(c echo.Context) (HistoryType, int64, error) {
	t, err := ParseHistoryType(c.Param("type"))
	if err != nil {
		return "", 0, badRequest("INVALID_PARAM", err.Error())
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, badRequest("INVALID_PARAM", "invalid id")
	}
	return t, id, nil
}

// decodeBody reads the request body as a live item. The variant comes from
// the body's historyType, never from the route.
func decodeBody(c echo.Context) (LiveItem, error) {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return nil, badRequest("INVALID_BODY", "could not read request body")
	}
	if len(data) > maxBodyBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			ErrorBody{Code: "BODY_TOO_LARGE", Message: "request body too large"})
	}
	item, err := DecodeLive(data)
	if err != nil {
		return nil, httpError(err)
	}
	return item, nil
}

func snapshotResponse(c echo.Context, status int, snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return httpError(err)
	}
	return c.JSONBlob(status, data)
}

func etag(hash uint64) string {
	return fmt.Sprintf(`"%016x"`, hash)
}

func badRequest(code, msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorBody{Code: code, Message: msg})
}

func httpError(err error) *echo.HTTPError {
	var de *DecodeError
	switch {
	case errors.As(err, &de):
		return badRequest(string(de.Kind), err.Error())
	case errors.Is(err, ErrInvalid):
		return badRequest("VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrTypeMismatch):
		return badRequest("TYPE_MISMATCH", err.Error())
	case errors.Is(err, ErrNotDeletable):
		return badRequest("NOT_DELETABLE", err.Error())
	case errors.Is(err, ErrPatientChanged):
		return badRequest("PATIENT_CHANGED", err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: err.Error()})
	}
	return echo.NewHTTPError(http.StatusInternalServerError,
		ErrorBody{Code: "INTERNAL", Message: "internal server error"}).SetInternal(err)
}
