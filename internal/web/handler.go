package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"fortivo-crm/internal/crm"
	"fortivo-crm/internal/store"
)

// Handler serves the HTML surface: dashboard, client list, forms, delete
// and the CSV export.
type Handler struct {
	repo *crm.Repository
}

func NewHandler(repo *crm.Repository) *Handler {
	return &Handler{repo: repo}
}

// clientRow is a list row augmented with the derived overdue flag.
type clientRow struct {
	crm.Client
	Overdue bool
}

// Home handles GET / with a redirect to the dashboard.
func (h *Handler) Home(c *fiber.Ctx) error {
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// Dashboard handles GET /dashboard: KPI totals, per-status counts and the
// chart payload. Labels and values are JSON-encoded strings because the
// chart collaborator embeds them verbatim into its config.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.repo.StatusCounts(c.Context())
	if err != nil {
		return err
	}
	overdue, err := h.repo.OverdueCount(c.Context(), today())
	if err != nil {
		return err
	}

	var total, leads, active, inactive int64
	labels := []string{}
	values := []int64{}
	for _, sc := range counts {
		total += sc.Count
		labels = append(labels, sc.Status)
		values = append(values, sc.Count)
		switch sc.Status {
		case "Lead":
			leads = sc.Count
		case "Active":
			active = sc.Count
		case "Inactive":
			inactive = sc.Count
		}
	}

	chartLabels, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	chartValues, err := json.Marshal(values)
	if err != nil {
		return err
	}

	return c.Render("dashboard", fiber.Map{
		"TotalClients": total,
		"Leads":        leads,
		"Active":       active,
		"Inactive":     inactive,
		"OverdueCount": overdue,
		// template.JS keeps the JSON strings verbatim inside the
		// chart's <script> block instead of re-quoting them.
		"ChartLabels": template.JS(chartLabels),
		"ChartValues": template.JS(chartValues),
	})
}

// ListClients handles GET /clients?q=&status=&sort=&order=
func (h *Handler) ListClients(c *fiber.Ctx) error {
	q := crm.ListQuery{
		Search: c.Query("q"),
		Status: c.Query("status"),
		SortBy: c.Query("sort"),
		Order:  c.Query("order"),
	}
	clients, err := h.repo.List(c.Context(), q)
	if err != nil {
		return err
	}

	now := today()
	rows := make([]clientRow, len(clients))
	for i, cl := range clients {
		rows[i] = clientRow{Client: cl, Overdue: cl.Overdue(now)}
	}

	return c.Render("client_list", fiber.Map{
		"Clients":      rows,
		"SearchTerm":   q.Search,
		"StatusFilter": q.Status,
		"SortBy":       q.SortColumn(),
		"Order":        q.Order,
	})
}

// NewClient handles GET and POST /clients/new.
func (h *Handler) NewClient(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		in, ok := parseForm(c)
		if ok {
			if _, err := h.repo.Create(c.Context(), in); err != nil {
				return err
			}
			return c.Redirect("/clients", fiber.StatusFound)
		}
		// Missing required fields: re-render the form with no
		// error message. Known UX gap.
	}
	return c.Render("client_form", fiber.Map{"IsEdit": false})
}

// EditClient handles GET and POST /clients/:id/edit.
func (h *Handler) EditClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if c.Method() == fiber.MethodPost {
		in, ok := parseForm(c)
		if ok {
			if _, err := h.repo.Update(c.Context(), id, in); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return crm.NotFoundError("client not found")
				}
				return err
			}
			return c.Redirect("/clients", fiber.StatusFound)
		}
	}

	client, err := h.repo.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return crm.NotFoundError("client not found")
		}
		return err
	}
	return c.Render("client_form", fiber.Map{"IsEdit": true, "Client": client})
}

// DeleteClient handles GET and POST /clients/:id/delete.
func (h *Handler) DeleteClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.repo.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.Redirect("/clients", fiber.StatusFound)
}

// ExportCSV handles GET /clients/export.
func (h *Handler) ExportCSV(c *fiber.Ctx) error {
	clients, err := h.repo.ExportAll(c.Context())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := crm.WriteCSV(&buf, clients); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="clients.csv"`)
	return c.Send(buf.Bytes())
}

// parseForm reads the posted form fields. The second return is false when
// the required fields are missing after trimming.
func parseForm(c *fiber.Ctx) (crm.ClientInput, bool) {
	in := crm.ClientInput{
		Name:         c.FormValue("name"),
		Email:        c.FormValue("email"),
		Phone:        c.FormValue("phone"),
		Status:       c.FormValue("status"),
		FollowUpDate: c.FormValue("follow_up_date"),
		Notes:        c.FormValue("notes"),
	}
	in.Normalize()
	return in, in.Name != "" && in.Email != ""
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, crm.NotFoundError("not found")
	}
	return id, nil
}

func today() string {
	return time.Now().Format("2006-01-02")
}
