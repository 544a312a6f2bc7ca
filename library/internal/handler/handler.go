package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/pfsquare/library-service/library/internal/errs"
	"github.com/pfsquare/library-service/library/internal/model"
	"github.com/pfsquare/library-service/pkg/kafka"
	md "github.com/pfsquare/library-service/pkg/middleware"
	"github.com/pfsquare/library-service/pkg/validate"
	_ "github.com/pfsquare/library-service/swagger"
)

type Handler struct {
	librarySvc LibraryService
	enqueuer   Enqueuer
	staffKey   string
	log        *zap.Logger
}

func New(librarySrv LibraryService, log *zap.Logger, staffKey string, producer sarama.SyncProducer) *Handler {
	h := &Handler{
		librarySvc: librarySrv,
		staffKey:   staffKey,
		log:        log,
	}
	if producer != nil {
		h.enqueuer = NewEnqueuer(producer)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books", h.GetBooks)
	api.GET("/books/:bookNumber", h.GetBook)
	api.GET("/loans", h.GetLoans)
	api.GET("/loans/defaulters", h.GetDefaulters)
	api.GET("/export/books.csv", h.ExportBooks)
	api.GET("/export/loans.csv", h.ExportLoans)

	// mutating routes are behind the shared staff passphrase
	staff := api.Group("", md.StaffAuth(h.staffKey))
	staff.POST("/books", h.CreateBook)
	staff.PATCH("/books/:bookNumber", h.UpdateBook)
	staff.DELETE("/books/:bookNumber", h.DeleteBook)
	staff.POST("/loans", h.IssueBook)
	staff.POST("/loans/:bookNumber/return", h.ReturnBook)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.librarySvc.AddBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	bookNumber := c.Param("bookNumber")

	book, err := h.librarySvc.GetBook(ctx, bookNumber)
	if err != nil {
		return httpError(err)
	}
	issued, err := h.librarySvc.IsIssued(ctx, bookNumber)
	if err != nil {
		return httpError(err)
	}

	type bookResponse struct {
		model.Book `json:",inline"`
		Issued     bool `json:"issued"`
	}
	return c.JSON(http.StatusOK, bookResponse{Book: book, Issued: issued})
}

func (h *Handler) GetBooks(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	query := c.QueryParam("query")
	field := model.SearchField(c.QueryParam("field"))

	books, err := h.librarySvc.SearchBooks(c.Request().Context(), query, field, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	bookNumber := c.Param("bookNumber")
	var patch model.UpdateBookRequest
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.librarySvc.UpdateBook(c.Request().Context(), bookNumber, patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.librarySvc.DeleteBook(c.Request().Context(), c.Param("bookNumber")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) IssueBook(c echo.Context) error {
	var req model.IssueBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.librarySvc.IssueBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	h.enqueueLoanEvent(model.LoanEvent{
		Kind:         "issued",
		LoanUid:      loan.LoanUid,
		BookNumber:   loan.BookNumber,
		BorrowerName: loan.BorrowerName,
		On:           loan.IssuedOn,
	})
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	bookNumber := c.Param("bookNumber")
	var req model.ReturnBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.librarySvc.ReturnBook(c.Request().Context(), bookNumber, req.ReturnedOn)
	if err != nil {
		return httpError(err)
	}

	returnedOn := loan.IssuedOn
	if loan.ReturnedOn != nil {
		returnedOn = *loan.ReturnedOn
	}
	h.enqueueLoanEvent(model.LoanEvent{
		Kind:       "returned",
		LoanUid:    loan.LoanUid,
		BookNumber: loan.BookNumber,
		On:         returnedOn,
	})
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) GetLoans(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	openOnly := true
	if allParam := c.QueryParam("all"); allParam != "" {
		all, err := strconv.ParseBool(allParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("all is invalid"))
		}
		openOnly = !all
	}

	loans, err := h.librarySvc.ListLoans(c.Request().Context(), openOnly, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) GetDefaulters(c echo.Context) error {
	var (
		asOf      model.Date
		graceDays int
		err       error
	)
	if asOfParam := c.QueryParam("asOf"); asOfParam != "" {
		t, err := time.Parse(time.DateOnly, asOfParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("asOf is invalid"))
		}
		asOf = model.Date{Time: t}
	}
	if gdParam := c.QueryParam("graceDays"); gdParam != "" {
		if graceDays, err = strconv.Atoi(gdParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("graceDays is invalid"))
		}
	}

	defaulters, err := h.librarySvc.Defaulters(c.Request().Context(), asOf, graceDays)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, defaulters)
}

func (h *Handler) enqueueLoanEvent(event model.LoanEvent) {
	if h.enqueuer == nil {
		return
	}
	if err := h.enqueuer.Enqueue(kafka.LoanEventsTopic, event); err != nil {
		h.log.Warn("loan event enqueue", zap.Error(err))
	}
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrDuplicateKey), errors.Is(err, errs.ErrAlreadyIssued):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrBadRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
