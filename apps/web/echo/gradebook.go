package echoweb

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/notify"
	sheetsvc "github.com/trezcool/gradebook/services/spreadsheet"
)

const csrfField = "_csrf"

type (
	pageView struct {
		AppName          string
		Tab              core.Kind
		CSRF             string
		Tables           []tableView
		Notifications    []notificationView
		Pending          *pendingView
		Summary          gradebook.Summary
		SearchDebounceMS int64
	}

	tableView struct {
		Kind        core.Kind
		Title       string
		Columns     []string
		Body        template.HTML
		Query       string
		Active      bool
		ShowSummary bool
	}

	notificationView struct {
		notify.Notification
		RemainingMS int64
	}

	pendingView struct {
		Kind    core.Kind
		ID      int
		Message string
	}
)

type gradebookUI struct {
	conf     *core.Config
	logger   core.Logger
	ctrl     *gradebook.Controller
	renderer *gradebook.Renderer
}

func registerGradebookUI(e *echo.Echo, conf *core.Config, logger core.Logger, ctrl *gradebook.Controller) {
	ui := gradebookUI{
		conf:     conf,
		logger:   logger,
		ctrl:     ctrl,
		renderer: gradebook.MustRenderer(),
	}

	e.GET("/", ui.page)
	e.POST("/notifications/:id/dismiss", ui.dismiss)

	tg := e.Group("/tables/:kind")
	tg.GET("", ui.tbody)
	tg.POST("/search", ui.search)
	tg.POST("/refresh", ui.refresh)
	tg.POST("/add", ui.openAdd)
	tg.POST("/add/cancel", ui.cancelAdd)
	tg.POST("/rows", ui.submitAdd)
	tg.POST("/rows/:id/edit", ui.beginEdit)
	tg.POST("/rows/:id/cancel", ui.cancelEdit)
	tg.POST("/rows/:id", ui.saveEdit)
	tg.POST("/rows/:id/delete", ui.requestDelete)
	tg.POST("/delete", ui.confirmDelete)
	tg.GET("/export.xlsx", ui.export)
	tg.POST("/import", ui.importSheet)
}

// Helpers

func kindParam(ctx echo.Context) (core.Kind, error) {
	return core.ParseKind(ctx.Param("kind"))
}

func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

func csrfToken(ctx echo.Context) string {
	token, _ := ctx.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

func tabURL(kind core.Kind) string {
	return "/?tab=" + string(kind)
}

// done redirects back to the table of kind. A stale entity was already reported to the user.
func done(ctx echo.Context, kind core.Kind, err error) error {
	if err != nil && errors.Cause(err) != gradebook.ErrStaleEntity {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, tabURL(kind))
}

// Handlers

func (ui *gradebookUI) page(ctx echo.Context) error {
	tab := core.KindStudent
	if q := ctx.QueryParam("tab"); q != "" {
		if k, err := core.ParseKind(q); err == nil {
			tab = k
		}
	}

	vm := ui.ctrl.ViewModel()
	view := pageView{
		AppName:          ui.conf.AppName,
		Tab:              tab,
		CSRF:             csrfToken(ctx),
		Summary:          vm.Summary(),
		SearchDebounceMS: ui.conf.UI.SearchDebounce.Milliseconds(),
	}

	for _, kind := range core.Kinds {
		table, err := vm.Table(kind)
		if err != nil {
			return err
		}
		table.CSRF = view.CSRF
		body, err := ui.renderer.Body(table)
		if err != nil {
			return err
		}
		view.Tables = append(view.Tables, tableView{
			Kind:        kind,
			Title:       kind.Title(),
			Columns:     table.Columns,
			Body:        body,
			Query:       table.Query,
			Active:      kind == tab,
			ShowSummary: kind == core.KindScore,
		})
	}

	ttl := ui.conf.UI.NotificationTimeout
	for _, n := range ui.ctrl.Notifier().Active() {
		remaining := ttl - time.Since(n.CreatedAt)
		if remaining < 0 {
			remaining = 0
		}
		view.Notifications = append(view.Notifications, notificationView{
			Notification: n,
			RemainingMS:  remaining.Milliseconds(),
		})
	}

	if p, ok := vm.Pending(); ok {
		view.Pending = &pendingView{
			Kind:    p.Kind,
			ID:      p.ID,
			Message: "Are you sure you want to delete this " + string(p.Kind) + "?",
		}
	}

	return ctx.Render(http.StatusOK, "page", view)
}

// tbody serves the body of one table, for the live search. The q parameter filters this
// response only; the stored query of the table is set by the search form.
func (ui *gradebookUI) tbody(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	table, err := ui.ctrl.ViewModel().Table(kind)
	if err != nil {
		return err
	}
	if q, ok := ctx.QueryParams()["q"]; ok {
		table.Query = q[0]
		table.Rows = gradebook.Filter(table.Rows, table.Query)
	}
	table.CSRF = csrfToken(ctx)
	body, err := ui.renderer.Body(table)
	if err != nil {
		return err
	}
	return ctx.HTML(http.StatusOK, string(body))
}

func (ui *gradebookUI) search(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	ui.ctrl.SetQuery(kind, ctx.FormValue("q"))
	return done(ctx, kind, nil)
}

func (ui *gradebookUI) refresh(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	return done(ctx, kind, ui.ctrl.Refresh(ctx.Request().Context(), kind))
}

func (ui *gradebookUI) openAdd(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	ui.ctrl.OpenAdd(kind)
	return done(ctx, kind, nil)
}

func (ui *gradebookUI) cancelAdd(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	ui.ctrl.CancelAdd(kind)
	return done(ctx, kind, nil)
}

func (ui *gradebookUI) submitAdd(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	values, err := ctx.FormParams()
	if err != nil {
		return errors.Wrap(err, "reading add form")
	}
	return done(ctx, kind, ui.ctrl.SubmitAdd(ctx.Request().Context(), kind, values))
}

func (ui *gradebookUI) beginEdit(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	return done(ctx, kind, ui.ctrl.BeginEdit(kind, id))
}

func (ui *gradebookUI) cancelEdit(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	ui.ctrl.CancelEdit(kind)
	return done(ctx, kind, nil)
}

func (ui *gradebookUI) saveEdit(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	values, err := ctx.FormParams()
	if err != nil {
		return errors.Wrap(err, "reading edit form")
	}
	return done(ctx, kind, ui.ctrl.SaveEdit(ctx.Request().Context(), kind, id, values))
}

func (ui *gradebookUI) requestDelete(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	return done(ctx, kind, ui.ctrl.RequestDelete(kind, id))
}

func (ui *gradebookUI) confirmDelete(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	confirmed := ctx.FormValue("confirm") == "yes"
	err = ui.ctrl.ConfirmDelete(ctx.Request().Context(), kind, confirmed)
	if errors.Cause(err) == gradebook.ErrNoPendingDelete {
		// already answered, or the confirmation belongs to another table
		return ctx.Redirect(http.StatusSeeOther, tabURL(kind))
	}
	return done(ctx, kind, err)
}

func (ui *gradebookUI) export(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	records, err := ui.ctrl.ViewModel().Records(kind)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, sheetsvc.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+kind.Resource()+`.xlsx"`)
	res.WriteHeader(http.StatusOK)
	return sheetsvc.Write(res, kind.Resource(), records, ui.logger)
}

func (ui *gradebookUI) importSheet(ctx echo.Context) error {
	kind, err := kindParam(ctx)
	if err != nil {
		return err
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing spreadsheet file").SetInternal(err)
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	records, err := sheetsvc.Read(file, ui.logger)
	if err != nil {
		ui.logger.Warn("reading spreadsheet", err)
		ui.ctrl.Notifier().Warning("The file is not a readable spreadsheet")
		return done(ctx, kind, nil)
	}
	_, err = ui.ctrl.Import(ctx.Request().Context(), kind, records)
	return done(ctx, kind, err)
}

func (ui *gradebookUI) dismiss(ctx echo.Context) error {
	ui.ctrl.Notifier().Dismiss(ctx.Param("id"))

	tab := core.KindStudent
	if k, err := core.ParseKind(ctx.FormValue("tab")); err == nil {
		tab = k
	}
	return ctx.Redirect(http.StatusSeeOther, tabURL(tab))
}
