package schema

// v2: Rx por producto con subtotales de canasta derivados; todo campo de entrada es obligatorio.
func init() {
	rx := []Field{
		number("aceAcePlusRx", "Ace / Ace Plus Rx"),
		number("toraxRx", "Torax Rx"),
		number("calboralDDXRx", "Calboral D/DX Rx"),
		number("neuroBRx", "Neuro B Rx"),
		number("totalStrategicBasketRx", "Total Strategic Basket Rx"),
		number("zimaxRx", "Zimax Rx"),
		number("calboDRx", "Calbo D Rx"),
		number("anadolAnadolPlusRx", "Anadol / Anadol Plus Rx"),
		number("totalFocusBasketRx", "Total Focus Basket Rx"),
		number("tezoRx", "Tezo Rx"),
		number("safyronRx", "Safyron Rx"),
		number("maxrinMaxrinDRx", "Maxrin / Maxrin D Rx"),
		number("contilexContilexTSRx", "Contilex / Contilex TS Rx"),
		number("dBalanceRx", "D-Balance Rx"),
		number("totalEmergingBasketRx", "Total Emerging Basket Rx"),
		number("totalBasketRx", "Total Basket Rx"),
		number("opdRx", "OPD Rx"),
		number("dischargeRx", "Discharge Rx"),
		number("gpRx", "GP Rx"),
		number("SBUCRxWithoutBasketandNewProductRx", "SBU-C Rx (Without Basket)"),
		number("totalRxs", "Total Rxs"),
	}
	newProducts := []Field{
		number("FeozaOrder", "Feoza Order"),
		number("AceDuoOrder", "Ace Duo Order"),
		number("AmenavirOrder", "Amenavir Order"),
	}

	// Orden relevante: totalBasketRx usa los subtotales y el remanente usa ambos totales.
	formulas := []Formula{
		commonFormulas.totalRxForecast,
		sum("totalStrategicBasketRx", "aceAcePlusRx", "toraxRx", "calboralDDXRx", "neuroBRx"),
		sum("totalFocusBasketRx", "zimaxRx", "calboDRx", "anadolAnadolPlusRx"),
		sum("totalEmergingBasketRx", "tezoRx", "safyronRx", "maxrinMaxrinDRx", "contilexContilexTSRx", "dBalanceRx"),
		sum("totalBasketRx", "totalStrategicBasketRx", "totalFocusBasketRx", "totalEmergingBasketRx"),
		commonFormulas.totalRxs,
		remainder("SBUCRxWithoutBasketandNewProductRx", "totalRxs", "totalBasketRx"),
		commonFormulas.notGivingOrder,
	}

	fields := concat(forecastFields, rx, orderFields, strategicOrderFields, focusOrderFields,
		emergingOrderFields, newProducts, surveyFields)

	register(New("v2", requireInputs(fields, formulas), formulas, commonSections(rx, newProducts)))
}
