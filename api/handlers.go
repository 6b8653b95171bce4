package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"kanban-api/board"
	"kanban-api/domain"
)

const (
	boardRoute   = "/api/tenants/:tenant/boards/:module"
	columnsRoute = boardRoute + "/columns"
	movesRoute   = boardRoute + "/moves"
	tasksRoute   = boardRoute + "/tasks"
)

var errMissingTenant = errors.New("missing tenant")

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, catalog *board.Catalog, deduper Deduper, dispatcher *Dispatcher, logger *log.Logger) {
	e.GET(boardRoute, getBoard(store, catalog, logger))
	e.GET(columnsRoute, getColumns(catalog, logger))
	e.POST(movesRoute, postMove(store, catalog, deduper, dispatcher, logger))
	e.POST(tasksRoute, postTask(catalog, deduper, dispatcher, logger))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// boardParams reads the tenant and module path parameters. An unknown
// module is logged and reported as domain.ErrUnknownModule.
func boardParams(c echo.Context, logger *log.Logger) (string, board.ModuleType, error) {
	tenant := strings.TrimSpace(c.Param("tenant"))
	if tenant == "" {
		return "", board.ModuleGeneric, errMissingTenant
	}
	name := c.Param("module")
	m, err := board.ParseModuleType(name)
	if err != nil {
		logger.WithFields(log.Fields{"tenant": tenant, "module": name}).Warn("unknown board module requested")
		return tenant, m, err
	}
	return tenant, m, nil
}

func paramsError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrUnknownModule) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "unknown module"})
	}
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, postBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func getBoard(store Storage, catalog *board.Catalog, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := newBoardRequestMetrics(c.Request().Context(), logger, boardRoute)
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		tenant, m, perr := boardParams(c, logger)
		if perr != nil {
			metrics.SetErrorStage("params")
			return paramsError(c, perr)
		}
		metrics.SetModule(m.String())
		filter := board.ParseFilter(c.QueryParams())
		metrics.SetFilterActive(filter.Active())

		fetchStart := time.Now()
		tasks, ferr := store.FetchTasks(ctx, tenant, m.String())
		metrics.ObserveFetch(time.Since(fetchStart))
		if ferr != nil {
			metrics.SetErrorStage("storage")
			logger.WithError(ferr).WithField("tenant", tenant).Error("fetch tasks failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load tasks"})
		}

		bindStart := time.Now()
		b := catalog.Bind(filter.Apply(tasks), nil, m)
		metrics.ObserveBind(time.Since(bindStart))
		overflow := 0
		if col, ok := b.Column(board.OverflowColumnID); ok {
			overflow = len(col.Tasks)
		}
		metrics.SetBoardShape(b.TaskCount(), len(b.Columns), overflow, len(b.Rejected))

		resp := boardResponse{
			Module:   m.String(),
			Columns:  b.Columns,
			Rejected: len(b.Rejected),
			Filter:   filter,
		}
		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, resp)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func getColumns(catalog *board.Catalog, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, m, err := boardParams(c, logger)
		if err != nil {
			return paramsError(c, err)
		}
		return c.JSON(http.StatusOK, columnsResponse{Module: m.String(), Columns: catalog.Columns(m)})
	}
}

func postMove(store Storage, catalog *board.Catalog, deduper Deduper, dispatcher *Dispatcher, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := newBoardRequestMetrics(c.Request().Context(), logger, movesRoute)
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		tenant, m, perr := boardParams(c, logger)
		if perr != nil {
			metrics.SetErrorStage("params")
			return paramsError(c, perr)
		}
		metrics.SetModule(m.String())

		var req moveRequest
		derr := decodeBody(c, &req)
		req.TaskID = strings.TrimSpace(req.TaskID)
		req.OverID = strings.TrimSpace(req.OverID)
		if derr != nil || req.TaskID == "" {
			metrics.SetErrorStage("invalid_body")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}

		fetchStart := time.Now()
		tasks, ferr := store.FetchTasks(ctx, tenant, m.String())
		metrics.ObserveFetch(time.Since(fetchStart))
		if ferr != nil {
			metrics.SetErrorStage("storage")
			logger.WithError(ferr).WithField("tenant", tenant).Error("fetch tasks failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load tasks"})
		}

		rec := &commandRecorder{}
		session := board.NewSession(catalog, m, rec)
		session.SetTasks(tasks)
		if !session.StartDrag(req.TaskID) {
			metrics.SetErrorStage("task_not_found")
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		session.DragOver(req.OverID)
		mv, ok := session.Drop()
		if !ok {
			return c.JSON(http.StatusOK, moveResponse{Moved: false, TaskID: req.TaskID})
		}
		rec.resolveMoves(mv)
		if rec.err != nil {
			metrics.SetErrorStage("encode_command")
			logger.WithError(rec.err).Error("encode move command failed")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to encode command"})
		}

		resp := moveResponse{
			Moved:        true,
			TaskID:       mv.TaskID,
			FromColumnID: mv.FromColumnID,
			ColumnID:     mv.ColumnID,
		}
		status, key, derr := submit(c, tenant, m, rec.cmds, req.IdempotencyKey, deduper, dispatcher, metrics, logger)
		resp.IdempotencyKey = key
		if derr != nil {
			return c.JSON(status, errorResponse{Error: derr.Error()})
		}
		if status == http.StatusOK {
			return c.JSON(status, moveResponse{Duplicate: true, TaskID: mv.TaskID, IdempotencyKey: key})
		}
		return c.JSON(status, resp)
	}
}

func postTask(catalog *board.Catalog, deduper Deduper, dispatcher *Dispatcher, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := newBoardRequestMetrics(c.Request().Context(), logger, tasksRoute)
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		tenant, m, perr := boardParams(c, logger)
		if perr != nil {
			metrics.SetErrorStage("params")
			return paramsError(c, perr)
		}
		metrics.SetModule(m.String())

		var req createTaskRequest
		if derr := decodeBody(c, &req); derr != nil {
			metrics.SetErrorStage("invalid_body")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			metrics.SetErrorStage("invalid_body")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "title is required"})
		}
		if req.ColumnID != "" && !hasColumn(catalog.Columns(m), req.ColumnID) {
			metrics.SetErrorStage("unknown_column")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown column"})
		}

		rec := &commandRecorder{title: req.Title}
		board.NewSession(catalog, m, rec).CreateTask(req.ColumnID)
		if rec.err != nil {
			metrics.SetErrorStage("encode_command")
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to encode command"})
		}

		status, key, derr := submit(c, tenant, m, rec.cmds, req.IdempotencyKey, deduper, dispatcher, metrics, logger)
		if derr != nil {
			return c.JSON(status, errorResponse{Error: derr.Error()})
		}
		return c.JSON(status, createTaskResponse{
			Duplicate:      status == http.StatusOK,
			ColumnID:       req.ColumnID,
			IdempotencyKey: key,
		})
	}
}

// submit stamps cmds, records the idempotency key and hands the commands to
// the dispatcher. It returns 202 on acceptance and 200 for a replayed key.
func submit(c echo.Context, tenant string, m board.ModuleType, cmds []domain.Command, key string,
	deduper Deduper, dispatcher *Dispatcher, metrics *boardRequestMetrics, logger *log.Logger) (int, string, error) {
	key = finalizeCommands(cmds, strings.TrimSpace(key))
	ctx := c.Request().Context()
	if deduper != nil {
		added, err := deduper.Add(ctx, tenant, key)
		if err != nil {
			metrics.SetErrorStage("dedupe")
			logger.WithError(err).WithField("tenant", tenant).Error("record idempotency key failed")
			return http.StatusServiceUnavailable, key, errors.New("idempotency check unavailable")
		}
		if !added {
			return http.StatusOK, key, nil
		}
	}

	job := dispatchJob{tenantID: tenant, module: m.String(), cmds: cmds, keys: []string{key}}
	if err := dispatcher.Dispatch(job); err != nil {
		metrics.SetErrorStage("enqueue")
		logger.WithError(err).WithField("tenant", tenant).Error("enqueue commands failed")
		return http.StatusInternalServerError, key, errors.New("failed to enqueue commands")
	}
	return http.StatusAccepted, key, nil
}

func hasColumn(cols []domain.Column, id string) bool {
	for _, col := range cols {
		if col.ID == id {
			return true
		}
	}
	return false
}
