package routes

import (
	"github.com/go-chi/chi/v5"

	"skyreserve/backend/internal/api"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {

	svcs := deps.Services

	r.Route("/api/v1", func(v1 chi.Router) {

		// Public: signup, login and flight browsing need no session.
		v1.Post("/auth/register/customer", api.RegisterCustomerHandler(svcs.Registration))
		v1.Post("/auth/register/agent", api.RegisterAgentHandler(svcs.Registration))
		v1.Post("/auth/register/staff", api.RegisterStaffHandler(svcs.Registration))
		v1.Post("/auth/login", api.LoginHandler(svcs.Registration))

		v1.Get("/flights", api.SearchFlightsHandler(svcs.Flights))
		v1.Get("/flights/{airline}/{flight_num}", api.FlightDetailHandler(svcs.Flights))
		v1.Get("/airports", api.ListAirportsHandler(svcs.Flights))

		// Everything below requires a session.
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(svcs.TokenIssuer))

			// Customer routes
			authed.Group(func(customer chi.Router) {
				customer.Use(middleware.RequireRole(constants.RoleCustomer))
				customer.Post("/customer/purchase", api.PurchaseTicketHandler(svcs.Booking))
				customer.Delete("/customer/tickets/{ticket_id}", api.RefundTicketHandler(svcs.Booking))
				customer.Get("/customer/dashboard", api.CustomerDashboardHandler(svcs.Reporting))
				customer.Get("/customer/trips", api.CustomerTripsHandler(svcs.Reporting))
			})

			// Booking agent routes
			authed.Group(func(agent chi.Router) {
				agent.Use(middleware.RequireRole(constants.RoleBookingAgent))
				agent.Get("/agent/flights", api.AgentSearchFlightsHandler(svcs.Flights))
				agent.Post("/agent/purchase", api.PurchaseTicketHandler(svcs.Booking))
				agent.Get("/agent/dashboard", api.AgentDashboardHandler(svcs.Reporting))
				agent.Get("/agent/commission", api.AgentCommissionHandler(svcs.Reporting))
			})

			// Airline staff routes. Capability checks (Admin/Operator) run
			// in the fleet service against the permission table.
			authed.Group(func(staff chi.Router) {
				staff.Use(middleware.RequireRole(constants.RoleAirlineStaff))
				staff.Get("/staff/flights", api.StaffFlightsHandler(svcs.Flights))
				staff.Post("/staff/flights", api.CreateFlightHandler(svcs.Fleet))
				staff.Put("/staff/flights/{airline}/{flight_num}/status", api.ChangeFlightStatusHandler(svcs.Fleet))
				staff.Delete("/staff/flights/{airline}/{flight_num}", api.DeleteFlightHandler(svcs.Fleet))
				staff.Get("/staff/flights/{airline}/{flight_num}/manifest", api.FlightManifestHandler(svcs.Reporting))

				staff.Get("/staff/airplanes", api.ListAirplanesHandler(svcs.Flights))
				staff.Post("/staff/airplanes", api.AddAirplaneHandler(svcs.Fleet))
				staff.Post("/staff/airports", api.AddAirportHandler(svcs.Fleet))
				staff.Post("/staff/agents", api.AddAffiliationHandler(svcs.Fleet))

				staff.Post("/staff/permissions", api.GrantPermissionHandler(svcs.Fleet))
				staff.Delete("/staff/permissions", api.RevokePermissionHandler(svcs.Fleet))

				staff.Get("/staff/dashboard", api.StaffDashboardHandler(svcs.Reporting))
				staff.Get("/staff/customers/flights", api.StaffCustomerFlightsHandler(svcs.Reporting))
			})
		})
	})
}
