package adminapi

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/wildfireconsulting/quantix/internal/domain"
	"github.com/wildfireconsulting/quantix/internal/i18n"
	"github.com/wildfireconsulting/quantix/internal/stock"
	"github.com/wildfireconsulting/quantix/internal/store"
	"github.com/wildfireconsulting/quantix/internal/webserver"
)

type productPayload struct {
	ProductID   string  `json:"product_id" form:"product_id"`
	ProductName string  `json:"product_name" form:"product_name"`
	Quantity    int     `json:"quantity" form:"quantity"`
	MinStock    int     `json:"min_stock" form:"min_stock"`
	CostPrice   float64 `json:"cost_price" form:"cost_price"`
	SellPrice   float64 `json:"sell_price" form:"sell_price"`
}

func registerProductRoutes() {
	webserver.ApiGET("/inventory/products", listProducts)
	webserver.ApiGET("/inventory/products/suggest-id", suggestProductID)
	webserver.ApiGET("/inventory/products/:id", getProduct)
	webserver.ApiPOST("/inventory/products", createProduct)
	webserver.ApiPUT("/inventory/products/:id", updateProduct)
	webserver.ApiDELETE("/inventory/products/:id", deleteProduct)
	webserver.ApiPOST("/inventory/products/:id/assets", regenerateProductAssets)
	webserver.ApiPOST("/inventory/reconcile", reconcileAssets)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	lowOnly := cast.ToBool(c.QueryParam("low_stock"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	rows := GetApp(c).Store().All()
	if q != "" || lowOnly {
		filtered := rows[:0]
		for _, r := range rows {
			if q != "" && !strings.Contains(strings.ToLower(r.ProductName), q) &&
				!strings.Contains(r.ProductID, q) {
				continue
			}
			if lowOnly && !r.LowStock() {
				continue
			}
			filtered = append(filtered, r)
		}
		rows = filtered
	}

	// whitelist sortable columns
	less := func(a, b domain.ProductRecord) bool { return a.ProductID < b.ProductID }
	switch sortField {
	case "product_name":
		less = func(a, b domain.ProductRecord) bool { return a.ProductName < b.ProductName }
	case "quantity":
		less = func(a, b domain.ProductRecord) bool { return a.Quantity < b.Quantity }
	case "last_updated":
		less = func(a, b domain.ProductRecord) bool { return a.LastUpdated.Before(b.LastUpdated.Time) }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if order == "DESC" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})

	total := len(rows)
	lo, hi := pageBounds(total, page, pageSize)
	return paged(c, rows[lo:hi], total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id := store.CanonicalID(c.Param("id"))
	rec, found := GetApp(c).Store().Find(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND",
			i18n.T(reqLang(c), "err_not_found"), nil)
	}
	return ok(c, rec)
}

func suggestProductID(c echo.Context) error {
	return ok(c, map[string]string{"product_id": GetApp(c).Stock().SuggestID()})
}

// formImage pulls the optional "image" upload from a multipart request.
// A plain JSON request simply has none.
func formImage(c echo.Context) (multipart.File, func()) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, func() {}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}
	}
	return f, func() { _ = f.Close() }
}

func createProduct(c echo.Context) error {
	lang := reqLang(c)

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	img, closeImg := formImage(c)
	defer closeImg()

	in := stock.RegisterInput{
		ProductID:   payload.ProductID,
		ProductName: payload.ProductName,
		Quantity:    payload.Quantity,
		MinStock:    payload.MinStock,
		CostPrice:   domain.MoneyFromFloat(payload.CostPrice),
		SellPrice:   domain.MoneyFromFloat(payload.SellPrice),
	}
	if img != nil {
		in.Image = img
	}

	rec, err := GetApp(c).Stock().Register(c.Request().Context(), in)
	if err != nil {
		return failFromDomain(c, lang, err)
	}
	return okMsg(c, i18n.T(lang, "saved"), rec)
}

func updateProduct(c echo.Context) error {
	lang := reqLang(c)
	id := store.CanonicalID(c.Param("id"))

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	img, closeImg := formImage(c)
	defer closeImg()

	in := stock.UpdateInput{
		ProductName: payload.ProductName,
		Quantity:    payload.Quantity,
		MinStock:    payload.MinStock,
		CostPrice:   domain.MoneyFromFloat(payload.CostPrice),
		SellPrice:   domain.MoneyFromFloat(payload.SellPrice),
	}
	if img != nil {
		in.NewImage = img
	}

	rec, err := GetApp(c).Stock().Update(c.Request().Context(), id, in)
	if err != nil {
		return failFromDomain(c, lang, err)
	}
	return okMsg(c, i18n.T(lang, "item_updated"), rec)
}

func deleteProduct(c echo.Context) error {
	lang := reqLang(c)
	id := store.CanonicalID(c.Param("id"))
	if err := GetApp(c).Stock().Delete(c.Request().Context(), id); err != nil {
		return failFromDomain(c, lang, err)
	}
	return okMsg(c, i18n.T(lang, "delete_ok"), map[string]string{"product_id": id})
}

func regenerateProductAssets(c echo.Context) error {
	lang := reqLang(c)
	id := store.CanonicalID(c.Param("id"))
	if err := GetApp(c).Stock().RegenerateAssets(c.Request().Context(), id); err != nil {
		return failFromDomain(c, lang, err)
	}
	rec, _ := GetApp(c).Store().Find(id)
	return okMsg(c, i18n.T(lang, "assets_ok"), rec)
}

// reconcileAssets runs the link-repair pass over the whole table on demand.
// The same pass runs automatically at load time.
func reconcileAssets(c echo.Context) error {
	changed, err := GetApp(c).Store().Reconcile()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Reconciliation failed", err.Error())
	}
	return ok(c, map[string]interface{}{"changed": changed})
}

// failFromDomain maps service sentinels onto HTTP verdicts.
func failFromDomain(c echo.Context, lang string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, "err_not_found"), nil)
	case errors.Is(err, domain.ErrDuplicateID):
		return fail(c, http.StatusConflict, "DUPLICATE_ID", i18n.T(lang, "id_exists"), nil)
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", i18n.T(lang, "invalid_qty"), nil)
	case errors.Is(err, domain.ErrInvalidAction):
		return fail(c, http.StatusBadRequest, "INVALID_ACTION", i18n.T(lang, "invalid_qty"), nil)
	case errors.Is(err, domain.ErrInvalidPrice):
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", i18n.T(lang, "invalid_qty"), nil)
	case errors.Is(err, domain.ErrMissingField):
		return fail(c, http.StatusBadRequest, "MISSING_FIELD", i18n.T(lang, "name_required"), nil)
	default:
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Operation failed", err.Error())
	}
}
