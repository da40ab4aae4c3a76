package controller

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/filter"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
	log "github.com/sirupsen/logrus"
)

// ExportFormatCSV is the value of the "formato" query parameter that downloads a report.
const ExportFormatCSV = "csv"

// ReportTable is a report as rendered: display cells for the page and raw cells for the export.
type ReportTable struct {
	Headers []string
	Rows    [][]string
	Export  [][]string
	Totals  []string
}

// A Report is one of the reports the backend computes.
type Report struct {
	Name        string // URL segment, e.g. "depreciacion"
	Title       string
	Description string
	Filters     []Field
	load        func(ctx context.Context, svc service.ReportServiceInterface, query url.Values) (*ReportTable, error)
}

// ReportView is the content of the report pages. The index page has Report set to nil.
type ReportView struct {
	Reports   []*Report
	Report    *Report
	Filters   []FormField
	Table     *ReportTable
	ExportURL string
}

// Reports lists the available reports.
func Reports() []*Report {
	return []*Report{
		{
			Name:        "depreciacion",
			Title:       "Depreciación de activos",
			Description: "Valor en libros y depreciación acumulada de cada activo.",
			Filters: []Field{
				{Name: "categoriaId", Label: "Categoría", Kind: FieldSelect, Source: categoriasSource},
				{Name: "fecha", Label: "Fecha de corte", Kind: FieldDate},
			},
			load: loadDepreciation,
		},
		{
			Name:        "inventario",
			Title:       "Inventario",
			Description: "Cantidad y valor de los activos por grupo.",
			Filters: []Field{
				{Name: "agruparPor", Label: "Agrupar por", Kind: FieldSelect, Choices: choices("CATEGORIA", "SEDE", "AREA", "ESTADO")},
			},
			load: loadInventory,
		},
		{
			Name:        "mantenimientos",
			Title:       "Costos de mantenimiento",
			Description: "Mantenimientos realizados y su costo por activo.",
			Filters: []Field{
				{Name: "fechaDesde", Label: "Desde", Kind: FieldDate},
				{Name: "fechaHasta", Label: "Hasta", Kind: FieldDate},
			},
			load: loadMaintenanceCosts,
		},
	}
}

func loadDepreciation(ctx context.Context, svc service.ReportServiceInterface, query url.Values) (*ReportTable, error) {
	rows, err := svc.Depreciation(ctx, query)
	if err != nil {
		return nil, err
	}

	table := &ReportTable{
		Headers: []string{"Código", "Activo", "Categoría", "Compra", "Valor de compra", "Depreciación anual", "Depreciación acumulada", "Valor en libros", "Vida útil restante (meses)"},
	}
	var purchase, accumulated, book float64
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Codigo, r.Nombre, r.Categoria, filter.FormatDate(r.FechaCompra),
			filter.FormatCurrency(r.ValorCompra), filter.FormatCurrency(r.DepreciacionAnual),
			filter.FormatCurrency(r.DepreciacionAcumulada), filter.FormatCurrency(r.ValorLibros),
			strconv.Itoa(r.VidaUtilRestanteMeses),
		})
		table.Export = append(table.Export, []string{
			r.Codigo, r.Nombre, r.Categoria, r.FechaCompra,
			exportAmount(r.ValorCompra), exportAmount(r.DepreciacionAnual),
			exportAmount(r.DepreciacionAcumulada), exportAmount(r.ValorLibros),
			strconv.Itoa(r.VidaUtilRestanteMeses),
		})
		purchase += r.ValorCompra
		accumulated += r.DepreciacionAcumulada
		book += r.ValorLibros
	}
	table.Totals = []string{"Total", "", "", "", filter.FormatCurrency(purchase), "", filter.FormatCurrency(accumulated), filter.FormatCurrency(book), ""}

	return table, nil
}

func loadInventory(ctx context.Context, svc service.ReportServiceInterface, query url.Values) (*ReportTable, error) {
	rows, err := svc.Inventory(ctx, query)
	if err != nil {
		return nil, err
	}

	table := &ReportTable{
		Headers: []string{"Grupo", "Cantidad", "Asignados", "Disponibles", "Valor total"},
	}
	var count, assigned, available int
	var value float64
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Grupo, strconv.Itoa(r.Cantidad), strconv.Itoa(r.Asignados), strconv.Itoa(r.Disponibles), filter.FormatCurrency(r.ValorTotal),
		})
		table.Export = append(table.Export, []string{
			r.Grupo, strconv.Itoa(r.Cantidad), strconv.Itoa(r.Asignados), strconv.Itoa(r.Disponibles), exportAmount(r.ValorTotal),
		})
		count += r.Cantidad
		assigned += r.Asignados
		available += r.Disponibles
		value += r.ValorTotal
	}
	table.Totals = []string{"Total", strconv.Itoa(count), strconv.Itoa(assigned), strconv.Itoa(available), filter.FormatCurrency(value)}

	return table, nil
}

func loadMaintenanceCosts(ctx context.Context, svc service.ReportServiceInterface, query url.Values) (*ReportTable, error) {
	rows, err := svc.MaintenanceCosts(ctx, query)
	if err != nil {
		return nil, err
	}

	table := &ReportTable{
		Headers: []string{"Código", "Activo", "Preventivos", "Correctivos", "Costo total"},
	}
	var preventive, corrective int
	var cost float64
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Codigo, r.Nombre, strconv.Itoa(r.CantidadPreventivos), strconv.Itoa(r.CantidadCorrectivos), filter.FormatCurrency(r.CostoTotal),
		})
		table.Export = append(table.Export, []string{
			r.Codigo, r.Nombre, strconv.Itoa(r.CantidadPreventivos), strconv.Itoa(r.CantidadCorrectivos), exportAmount(r.CostoTotal),
		})
		preventive += r.CantidadPreventivos
		corrective += r.CantidadCorrectivos
		cost += r.CostoTotal
	}
	table.Totals = []string{"Total", "", strconv.Itoa(preventive), strconv.Itoa(corrective), filter.FormatCurrency(cost)}

	return table, nil
}

func exportAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// A ReportController serves the report pages and their CSV export. It also implements the interface `Controller`.
type ReportController struct {
	*BaseController
	GroupName string
	ReportSvc service.ReportServiceInterface
	LookupSvc *service.LookupService
	Reports   []*Report
}

// GetGroupName returns the group name.
func (rc *ReportController) GetGroupName() string {
	return rc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by ReportController.
func (rc *ReportController) GetEndpointMap() EndpointMap {
	endpoints := EndpointMap{
		urlMethodPair{"", "GET"}: []gin.HandlerFunc{rc.handleIndex},
	}
	for _, report := range rc.Reports {
		endpoints[urlMethodPair{"/" + report.Name, "GET"}] = []gin.HandlerFunc{rc.reportHandler(report)}
	}

	return endpoints
}

func (rc *ReportController) handleIndex(c *gin.Context) {
	rc.render(c, http.StatusOK, "reports", "Reportes", &ReportView{Reports: rc.Reports})
}

func (rc *ReportController) reportHandler(report *Report) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := reportQuery(c.Request.URL.Query(), report.Filters)

		table, err := report.load(c.Request.Context(), rc.ReportSvc, query)
		if err != nil {
			rc.renderError(c, err)
			return
		}

		if c.Query("formato") == ExportFormatCSV {
			rc.writeCSV(c, report, table)
			return
		}

		fields := make([]*Field, 0, len(report.Filters))
		for i := range report.Filters {
			fields = append(fields, &report.Filters[i])
		}
		options, err := rc.LookupSvc.Options(c.Request.Context(), optionSources(fields))
		if err != nil {
			rc.renderError(c, err)
			return
		}

		current := common.Record{}
		for key := range query {
			current[key] = query.Get(key)
		}

		exportQuery := url.Values{}
		for key, values := range query {
			exportQuery[key] = values
		}
		exportQuery.Set("formato", ExportFormatCSV)

		rc.render(c, http.StatusOK, "reports", report.Title, &ReportView{
			Reports:   rc.Reports,
			Report:    report,
			Filters:   formFieldsFromRecord(fields, current, options),
			Table:     table,
			ExportURL: fmt.Sprintf("%v/%v?%v", rc.GroupName, report.Name, exportQuery.Encode()),
		})
	}
}

// reportQuery keeps the non-empty filters of the report, the only parameters forwarded to the backend.
func reportQuery(raw url.Values, filters []Field) url.Values {
	query := url.Values{}
	for _, f := range filters {
		if v := raw.Get(f.Name); v != "" {
			query.Set(f.Name, v)
		}
	}

	return query
}

func (rc *ReportController) writeCSV(c *gin.Context, report *Report, table *ReportTable) {
	filename := fmt.Sprintf("%v-%v.csv", report.Name, time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	// The BOM makes spreadsheet programs read the file as UTF-8.
	if _, err := c.Writer.WriteString("\xEF\xBB\xBF"); err != nil {
		log.Warnf("No se pudo exportar el reporte %v: %v", report.Name, err)
		return
	}

	w := csv.NewWriter(c.Writer)
	records := append([][]string{table.Headers}, table.Export...)
	if err := w.WriteAll(records); err != nil {
		log.Warnf("No se pudo exportar el reporte %v: %v", report.Name, err)
	}
}
