package schema

// Colores de sección del export.
const (
	ColorUserInfo        = "D9EAD3"
	ColorForecast        = "CCE5FF"
	ColorRx              = "CCFFCC"
	ColorOrders          = "FFFF99"
	ColorStrategicOrders = "FFCCCC"
	ColorFocusOrders     = "E5F5CC"
	ColorEmergingOrders  = "E5CCFF"
	ColorNewProducts     = "FFE0B3"
	ColorSurvey          = "D9D2E9"
	ColorTotals          = "D9D9D9"
)

// Campos compartidos por todas las versiones.
var (
	forecastFields = []Field{
		number("salesForecast", "Sales Forecast").required(),
		number("strategicRxForecast", "Strategic Rx Forecast"),
		number("focusRxForecast", "Focus Rx Forecast"),
		number("emergingRxForecast", "Emerging Rx Forecast"),
		number("newProductRxForecast", "New Product Rx Forecast"),
		number("opdRxForecast", "OPD Rx Forecast"),
		number("gpRxForecast", "GP Rx Forecast"),
		number("dischargeRxForecast", "Discharge Rx Forecast"),
		number("totalRxForecast", "Total Rx Forecast"),
	}

	orderFields = []Field{
		text("SBUCOrderRouteName", "SBU C Order Route Name"),
		number("noOfPartySBUCOrderRoute", "No Of Party SBU C Order Route"),
		number("noOfCollectedOrderSBUC", "No Of Collected Order SBU C"),
		number("noOfNotGivingOrderParty", "No Of Not Giving Order Party"),
		text("causeOfNotGivingOrder", "Cause Of Not Giving Order"),
		number("marketTotalOrder", "Market Total Order"),
	}

	strategicOrderFields = []Field{
		number("NeuroBOrder", "Neuro B Order"),
		number("CalboralDDXOrder", "Calboral DDX Order"),
		number("ToraxOrder", "Torax Order"),
		number("AceAceplusOrder", "Ace Aceplus Order"),
	}

	focusOrderFields = []Field{
		number("ZimaxOrder", "Zimax Order"),
		number("CalboDOrder", "Calbo D Order"),
		number("AnadolAnadolplusOrder", "Anadol / Anadol Plus Order"),
	}

	emergingOrderFields = []Field{
		number("SafyronOrder", "Safyron Order"),
		number("DBalanceOrder", "D-Balance Order"),
		number("TezoOrder", "Tezo Order"),
		number("ContilexContilexTSOrder", "Contilex / Contilex TS Order"),
		number("MaxrinMaxrinDOrder", "Maxrin / Maxrin D Order"),
	}

	surveyFields = []Field{
		number("rxSendInDIDS", "Rx Send In DIDS"),
		number("writtenRxInSurveyPad", "Written Rx In Survey Pad"),
		text("indoorSurvey", "Indoor Survey"),
	}

	commonFormulas = struct {
		totalRxForecast Formula
		totalRxs        Formula
		notGivingOrder  Formula
	}{
		totalRxForecast: sum("totalRxForecast", "opdRxForecast", "gpRxForecast", "dischargeRxForecast"),
		totalRxs:        sum("totalRxs", "opdRx", "dischargeRx", "gpRx"),
		notGivingOrder:  remainder("noOfNotGivingOrderParty", "noOfPartySBUCOrderRoute", "noOfCollectedOrderSBUC"),
	}
)

func names(fields ...[]Field) []string {
	var out []string
	for _, group := range fields {
		for _, f := range group {
			out = append(out, f.Name)
		}
	}
	return out
}

func concat(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// commonSections secciones alrededor del bloque Rx y de pedidos de producto nuevo, que cambian por versión.
func commonSections(rx, newProducts []Field) []Section {
	return []Section{
		{Title: "User Info", Color: ColorUserInfo, Fields: []string{PseudoUserName, PseudoUserEmail}},
		{Title: "Forecast", Color: ColorForecast, Fields: append([]string{PseudoCreatedAt}, names(forecastFields)...)},
		{Title: "Rx Summary", Color: ColorRx, Fields: names(rx)},
		{Title: "Orders", Color: ColorOrders, Fields: names(orderFields)},
		{Title: "Strategic Basket Orders", Color: ColorStrategicOrders, Fields: names(strategicOrderFields)},
		{Title: "Focus Basket Orders", Color: ColorFocusOrders, Fields: names(focusOrderFields)},
		{Title: "Emerging Basket Orders", Color: ColorEmergingOrders, Fields: names(emergingOrderFields)},
		{Title: "New Product Orders", Color: ColorNewProducts, Fields: names(newProducts)},
		{Title: "Survey", Color: ColorSurvey, Fields: names(surveyFields)},
	}
}
