package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msalah0e/tradegraph/internal/graph"
)

// graphParams selects the display configuration and filter of a request.
// Empty fields fall back to the server defaults.
type graphParams struct {
	Mode      string `query:"mode" validate:"omitempty,oneof=full country-supplier supplier-product product-importer country-product supplier-importer"`
	Product   string `query:"product" validate:"omitempty,oneof=hsCode productName"`
	HSLevel   string `query:"hs_level" validate:"omitempty,oneof=category subcategory exact"`
	Threshold int    `query:"threshold" validate:"omitempty,min=1"`
	Search    string `query:"search"`
	Focus     string `query:"focus"`
}

// nodeParams keeps the display query in a named field; the binder skips
// embedded fields of unexported types.
type nodeParams struct {
	ID      string `param:"id" validate:"required"`
	Display graphParams
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// graphResponse is a document plus the outcome of the search step.
type graphResponse struct {
	*graph.Document
	Matches     []string `json:"matches,omitempty"`
	AutoFocused bool     `json:"autoFocused,omitempty"`
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.getPage)
	s.echo.GET("/api/graph", s.getGraph)
	s.echo.GET("/api/nodes/:id", s.getNode)
}

func (s *Server) resolve(p graphParams) (graph.DisplayConfig, graph.FilterState) {
	display := s.opts.Display
	if p.Mode != "" {
		display.Mode = graph.DisplayMode(p.Mode)
	}
	if p.Product != "" {
		display.Product = graph.ProductMode(p.Product)
	}
	if p.HSLevel != "" {
		display.HSLevel = graph.HSLevel(p.HSLevel)
	}

	filter := s.opts.Filter
	if p.Threshold > 0 {
		filter.MinTransactions = p.Threshold
	}
	if p.Search != "" {
		filter.Search = p.Search
	}
	// ids depend on the display configuration, so a default focus only
	// applies to the default display
	if p.Focus != "" || display != s.opts.Display {
		filter.Focus = p.Focus
	}
	return display, filter
}

// document resolves the request into a response body. When it returns a nil
// response the error reply has already been written.
func (s *Server) document(c echo.Context) (*graphResponse, error) {
	params := new(graphParams)
	if err := c.Bind(params); err != nil {
		return nil, c.JSON(http.StatusBadRequest, apiError{Error: "invalid_params", Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return nil, c.JSON(http.StatusBadRequest, apiError{Error: "invalid_params", Message: err.Error()})
	}

	display, filter := s.resolve(*params)
	full, err := s.full(display)
	if err != nil {
		return nil, s.fail(c, err)
	}

	v := graph.Visible(full, filter)
	if v.Empty() {
		return nil, s.fail(c, graph.ErrEmptyView)
	}
	layout := graph.LayoutHints(v.Graph, display.Mode, v.Focus, s.opts.Layout)
	return &graphResponse{
		Document:    graph.NewDocument(v, display, filter, layout),
		Matches:     v.Matches,
		AutoFocused: v.AutoFocused,
	}, nil
}

func (s *Server) getGraph(c echo.Context) error {
	res, err := s.document(c)
	if res == nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getPage(c echo.Context) error {
	res, err := s.document(c)
	if res == nil {
		return err
	}
	page, err := res.Document.ExportHTML()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiError{Error: "internal", Message: err.Error()})
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) getNode(c echo.Context) error {
	params := new(nodeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Error: "invalid_params", Message: "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Error: "invalid_params", Message: err.Error()})
	}

	display, _ := s.resolve(params.Display)
	full, err := s.full(display)
	if err != nil {
		return s.fail(c, err)
	}
	n, err := full.Node(params.ID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, graph.Summarize(n))
}

// fail maps pipeline errors onto distinct status codes so an empty filter
// result is never confused with missing data.
func (s *Server) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, graph.ErrNoData):
		return c.JSON(http.StatusServiceUnavailable, apiError{Error: "no_data", Message: err.Error()})
	case errors.Is(err, graph.ErrEmptyView):
		return c.JSON(http.StatusNotFound, apiError{Error: "empty_view", Message: err.Error()})
	case errors.Is(err, graph.ErrUnknownNode):
		return c.JSON(http.StatusNotFound, apiError{Error: "unknown_node", Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, apiError{Error: "internal", Message: err.Error()})
	}
}
