package constants

const (
	APP_DAILY_COFFEE = "daily-coffee"
	APP_API_SERVICE  = "api-service"
	APP_MIGRATION    = "migration"

	APP_ADDRESS_SERVICE = "address-service"
	APP_ADMIN_SERVICE   = "admin-service"
	APP_CART_SERVICE    = "cart-service"
	APP_ORDER_SERVICE   = "order-service"
	APP_PRODUCT_SERVICE = "product-service"
	APP_REVIEW_SERVICE  = "review-service"
	APP_USER_SERVICE    = "user-service"

	AUDIENCE_ACCESS  = "audience-access"
	AUDIENCE_REFRESH = "audience-refresh"

	ENV_DEVELOPMENT = "development"
	ENV_PRODUCTION  = "production"
)

const (
	KEY_APP_NAME       = "app"
	KEY_BODY           = "body"
	KEY_CACHE_KEY      = "cacheKey"
	KEY_CART           = "cart"
	KEY_CART_ID        = "cartId"
	KEY_CART_ITEM_ID   = "cartItemId"
	KEY_CATEGORY_SLUG  = "categorySlug"
	KEY_CONFIG         = "config"
	KEY_DB_URL         = "dbUrl"
	KEY_EMAIL          = "email"
	KEY_HEADER         = "header"
	KEY_IDEMPOTENCY    = "idempotencyKey"
	KEY_ADDRESS_ID     = "addressId"
	KEY_ORDER          = "order"
	KEY_ORDERS         = "orders"
	KEY_ORDER_ID       = "orderId"
	KEY_ORDER_ITEMS    = "orderItems"
	KEY_ORDER_STATUS   = "orderStatus"
	KEY_PAGINATION     = "pagination"
	KEY_PATH_VALUES    = "pathValues"
	KEY_PROCESS        = "process"
	KEY_PRODUCT        = "product"
	KEY_PRODUCTS       = "products"
	KEY_PRODUCT_ID     = "productId"
	KEY_REQUEST        = "request"
	KEY_REQUEST_BODY   = "requestBody"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_ID     = "requestId"
	KEY_REQUEST_IP     = "requesterIP"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestURI"
	KEY_REQUEST_URL    = "requestURL"
	KEY_REVIEW_ID      = "reviewId"
	KEY_ROLE           = "role"
	KEY_SPAN_ID        = "spanId"
	KEY_TAG            = "tag"
	KEY_TOKEN          = "token"
	KEY_TRACE_ID       = "traceId"
	KEY_USER_ID        = "userId"
)
