package schema

// v1: totales de canasta capturados directamente, solo salesForecast obligatorio.
func init() {
	rx := []Field{
		number("totalStrategicBasketRx", "Total Strategic Basket Rx"),
		number("totalFocusBasketRx", "Total Focus Basket Rx"),
		number("totalEmergingBasketRx", "Total Emerging Basket Rx"),
		number("totalNewProductRx", "Total New Product Rx"),
		number("totalBasketandNewProductRx", "Total Basket & New Product Rx"),
		number("opdRx", "OPD Rx"),
		number("dischargeRx", "Discharge Rx"),
		number("gpRx", "GP Rx"),
		number("SBUCRxWithoutBasketandNewProductRx", "SBU-C Rx (Without Basket & New Product)"),
		number("totalRxs", "Total Rxs"),
	}
	newProducts := []Field{
		number("newProductOrder", "New Product Order"),
	}

	formulas := []Formula{
		commonFormulas.totalRxForecast,
		sum("totalBasketandNewProductRx",
			"totalStrategicBasketRx", "totalFocusBasketRx", "totalEmergingBasketRx", "totalNewProductRx"),
		commonFormulas.totalRxs,
		remainder("SBUCRxWithoutBasketandNewProductRx", "totalRxs", "totalBasketandNewProductRx"),
		commonFormulas.notGivingOrder,
	}

	fields := concat(forecastFields, rx, orderFields, strategicOrderFields, focusOrderFields,
		emergingOrderFields, newProducts, surveyFields)

	register(New("v1", fields, formulas, commonSections(rx, newProducts)))
}
