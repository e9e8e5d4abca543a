package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-api/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-api/internal/app"
	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// Acknowledgements returned by the write endpoints.
const (
	MsgQuoteAdded         = "Successfully added the new quote."
	MsgQuoteUpdated       = "Successfully updated the quote."
	MsgQuoteAuthorUpdated = "Successfully updated the author of the quote."
	MsgQuoteDeleted       = "Successfully deleted the quote from the database."
)

// IndexTemplateName is the name the index page is registered under.
const IndexTemplateName = "index.html"

//go:embed templates/index.html
var templateFS embed.FS

// IndexTemplate parses the embedded index page. Register it with
// gin.Engine.SetHTMLTemplate before serving GET /.
func IndexTemplate() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/"+IndexTemplateName))
}

// QuoteService is the application service behind the quote endpoints.
// *app.QuoteService implements it.
type QuoteService interface {
	RandomQuote(ctx context.Context) (*domain.Quote, error)
	AllQuotes(ctx context.Context) ([]domain.Quote, error)
	QuotesByAuthor(ctx context.Context, author string) ([]domain.Quote, error)
	QuotesByText(ctx context.Context, text string) ([]domain.Quote, error)
	AddQuote(ctx context.Context, text, author string) (*domain.Quote, error)
	UpdateQuoteText(ctx context.Context, id int64, text string) error
	UpdateQuoteAuthor(ctx context.Context, id int64, author string) error
	DeleteQuote(ctx context.Context, id int64) error
}

// Endpoint describes one public route on the index page.
type Endpoint struct {
	Method      string
	Path        string
	Params      string
	Description string
}

// Endpoints lists the public quote routes in the order they are documented.
var Endpoints = []Endpoint{
	{http.MethodGet, "/random", "", "A random quote."},
	{http.MethodGet, "/all", "", "Every quote in insertion order."},
	{http.MethodGet, "/search-by-author", "author (query)", "Quotes by an exact author name."},
	{http.MethodGet, "/search", "quote (query)", "Quotes with exactly this text."},
	{http.MethodPost, "/add", "quote, author (form)", "Store a new quote."},
	{http.MethodPatch, "/update-quote/:id", "new_quote (query)", "Replace the text of a quote."},
	{http.MethodPatch, "/update-quote-author/:id", "new_author (query)", "Replace the author of a quote."},
	{http.MethodDelete, "/delete-quote/:id", "api-key (query)", "Delete a quote. Requires the API key."},
}

type indexPage struct {
	Name      string
	Version   string
	Endpoints []Endpoint
}

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service QuoteService
	index   indexPage
}

// NewQuoteHandler creates a new quote handler. name and version are shown
// on the index page.
func NewQuoteHandler(service QuoteService, name, version string) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		index:   indexPage{Name: name, Version: version, Endpoints: Endpoints},
	}
}

// Index handles GET / with the HTML landing page.
func (h *QuoteHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, IndexTemplateName, h.index)
}

// GetRandomQuote handles GET /random.
//
// @Summary Get a random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteEnvelope
// @Failure 404 {object} dto.ErrorResponse
// @Router /random [get]
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.service.RandomQuote(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteEnvelope{Quote: dto.NewQuoteResponse(quote)})
}

// GetAllQuotes handles GET /all.
//
// @Summary List every quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuotesEnvelope
// @Router /all [get]
func (h *QuoteHandler) GetAllQuotes(c *gin.Context) {
	quotes, err := h.service.AllQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuotesEnvelope{Quotes: dto.NewQuoteResponses(quotes)})
}

// SearchByAuthor handles GET /search-by-author?author=.
//
// @Summary Find quotes by author
// @Tags quotes
// @Produce json
// @Param author query string true "Exact author name"
// @Success 200 {object} dto.QuotesEnvelope
// @Failure 404 {object} dto.ErrorResponse
// @Router /search-by-author [get]
func (h *QuoteHandler) SearchByAuthor(c *gin.Context) {
	quotes, err := h.service.QuotesByAuthor(c.Request.Context(), c.Query("author"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuotesEnvelope{Quotes: dto.NewQuoteResponses(quotes)})
}

// SearchByText handles GET /search?quote=.
//
// @Summary Find quotes by exact text
// @Tags quotes
// @Produce json
// @Param quote query string true "Exact quote text"
// @Success 200 {object} dto.QuotesEnvelope
// @Failure 404 {object} dto.ErrorResponse
// @Router /search [get]
func (h *QuoteHandler) SearchByText(c *gin.Context) {
	quotes, err := h.service.QuotesByText(c.Request.Context(), c.Query("quote"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuotesEnvelope{Quotes: dto.NewQuoteResponses(quotes)})
}

// AddQuote handles POST /add with form fields quote and author.
//
// @Summary Add a quote
// @Tags quotes
// @Accept x-www-form-urlencoded
// @Produce json
// @Param quote formData string true "Quote text"
// @Param author formData string true "Author"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /add [post]
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := dto.BindFormAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	if _, err := h.service.AddQuote(c.Request.Context(), req.Quote, req.Author); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(MsgQuoteAdded))
}

// UpdateQuote handles PATCH /update-quote/:id?new_quote=.
//
// @Summary Replace the text of a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Param new_quote query string true "New text"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /update-quote/{id} [patch]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	if err := h.service.UpdateQuoteText(c.Request.Context(), id, req.NewQuote); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(MsgQuoteUpdated))
}

// UpdateQuoteAuthor handles PATCH /update-quote-author/:id?new_author=.
//
// @Summary Replace the author of a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Param new_author query string true "New author"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /update-quote-author/{id} [patch]
func (h *QuoteHandler) UpdateQuoteAuthor(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.UpdateAuthorRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	if err := h.service.UpdateQuoteAuthor(c.Request.Context(), id, req.NewAuthor); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(MsgQuoteAuthorUpdated))
}

// DeleteQuote handles DELETE /delete-quote/:id?api-key=.
// The key is checked by middleware.RequireAPIKey before this handler runs.
//
// @Summary Delete a quote
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Param api-key query string true "Shared secret"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /delete-quote/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteQuote(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(MsgQuoteDeleted))
}

// RegisterQuoteRoutes registers the quote routes on rg. deleteGuard runs
// before DeleteQuote and is expected to enforce the API key.
func (h *QuoteHandler) RegisterQuoteRoutes(rg gin.IRoutes, deleteGuard ...gin.HandlerFunc) {
	rg.GET("/", h.Index)
	rg.GET("/random", h.GetRandomQuote)
	rg.GET("/all", h.GetAllQuotes)
	rg.GET("/search-by-author", h.SearchByAuthor)
	rg.GET("/search", h.SearchByText)
	rg.POST("/add", h.AddQuote)
	rg.PATCH("/update-quote/:id", h.UpdateQuote)
	rg.PATCH("/update-quote-author/:id", h.UpdateQuoteAuthor)
	rg.DELETE("/delete-quote/:id", append(deleteGuard, h.DeleteQuote)...)
}

// quoteID parses the :id path segment. Anything that is not an integer
// cannot address a quote, so it is reported as not found.
func quoteID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		dto.HandleError(c, app.QuoteIDNotFound(raw))
		return 0, false
	}

	return id, true
}
