package coa

import "github.com/contabot-dev/contabot/internal/model"

// DefaultChart returns the starter chart of accounts for a new user,
// ordered so every account appears after its parent. Ancestor rows are
// persisted (not left to synthesis) because account creation requires a
// persisted parent.
func DefaultChart() []model.Account {
	return []model.Account{
		// Clase 1: Activo
		{Code: "1", Name: "Activo"},
		{Code: "11", Name: "Disponible"},
		{Code: "1105", Name: "Caja"},
		{Code: "1105-05", Name: "Efectivo en Bolsillo", CanReceiveMovement: true},
		{Code: "1110", Name: "Bancos"},
		{Code: "1110-10", Name: "Cta de Ahorros Bancolombia", CanReceiveMovement: true},
		{Code: "1110-15", Name: "Cta de Ahorros Nubank", CanReceiveMovement: true},
		{Code: "12", Name: "Inversiones"},
		{Code: "1225", Name: "Certificados"},
		{Code: "1225-05", Name: "CDT Bancolombia", CanReceiveMovement: true},

		// Clase 2: Pasivo
		{Code: "2", Name: "Pasivo"},
		{Code: "21", Name: "Obligaciones Financieras"},
		{Code: "2105", Name: "Bancos Nacionales"},
		{Code: "2105-01", Name: "Prestamo Bancolombia", CanReceiveMovement: true},
		{Code: "2105-02", Name: "Tarjeta de Crédito Nubank", CanReceiveMovement: true},
		{Code: "23", Name: "Cuentas por Pagar"},
		{Code: "2305", Name: "Proveedores"},
		{Code: "2305-01", Name: "Cuenta por Pagar", CanReceiveMovement: true},

		// Clase 3: Patrimonio
		{Code: "3", Name: "Patrimonio"},
		{Code: "31", Name: "Capital Social"},
		{Code: "3105", Name: "Capital Suscrito y Pagado"},
		{Code: "3105-05", Name: "Capital Autorizado", CanReceiveMovement: true},

		// Clase 4: Ingresos
		{Code: "4", Name: "Ingresos"},
		{Code: "41", Name: "Operacionales"},
		{Code: "4135", Name: "Comercio"},
		{Code: "4135-05", Name: "Ingresos Generales", CanReceiveMovement: true},

		// Clase 5: Gastos
		{Code: "5", Name: "Gastos"},
		{Code: "51", Name: "Operacionales de Administración"},
		{Code: "5105", Name: "Gastos de Personal"},
		{Code: "5105-01", Name: "Sueldos", CanReceiveMovement: true},
		{Code: "5125", Name: "Alimentación y Víveres"},
		{Code: "5125-01", Name: "Alimentación", CanReceiveMovement: true},
		{Code: "5135", Name: "Servicios"},
		{Code: "5135-01", Name: "Servicios Públicos", CanReceiveMovement: true},
		{Code: "5135-02", Name: "Plan de Datos Celular", CanReceiveMovement: true},
		{Code: "5135-03", Name: "Gasolina", CanReceiveMovement: true},
		{Code: "5140", Name: "Gastos Legales"},
		{Code: "5140-01", Name: "Consulares", CanReceiveMovement: true},
		{Code: "5155", Name: "Gastos de Viaje"},
		{Code: "5155-01", Name: "Alojamiento", CanReceiveMovement: true},
		{Code: "5155-02", Name: "Tiquetes Aéreos", CanReceiveMovement: true},

		// Reserved family for the miscellaneous fallback code.
		{Code: "59", Name: "Otros Gastos"},
		{Code: "5995", Name: "Gastos Diversos"},
	}
}
