package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteArticles is the public articles route.
	RouteArticles = "/articles"
	// RouteBooking is the booking form submission route.
	RouteBooking = "/booking"
	// RouteInquiry is the car inquiry route.
	RouteInquiry = "/inquiry"
	// RouteTestimonials is the public testimonial submission route.
	RouteTestimonials = "/testimonials"

	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteEvents is the events admin route.
	RouteEvents = "/events"

	// RouteArticlesID is the articles ID route pattern.
	RouteArticlesID = RouteArticles + RouteParamID
	// RouteUsersID is the users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID
	// RouteTestimonialsID is the testimonials ID route pattern.
	RouteTestimonialsID = RouteTestimonials + RouteParamID
	// RouteArticleSlug is the public article route pattern.
	RouteArticleSlug = RouteArticles + RouteParamSlug
)

const (
	redirectAdmin               = "/admin"
	redirectAdminArticles       = redirectAdmin + RouteArticles
	redirectAdminArticlesNew    = redirectAdminArticles + RouteSuffixNew
	redirectAdminTestimonials   = redirectAdmin + RouteTestimonials
	redirectAdminUsers          = redirectAdmin + RouteUsers
	redirectAdminUsersNew       = redirectAdminUsers + RouteSuffixNew
	redirectLogin               = RouteLogin
	redirectArticles            = RouteArticles
	redirectHomeTestimonials    = "/#testimonials"
	redirectHomeBooking         = "/#booking"

	redirectAdminArticlesID = redirectAdminArticles + "/%d"
	redirectAdminUsersID    = redirectAdminUsers + "/%d"
)
