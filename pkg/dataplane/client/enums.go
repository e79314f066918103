package client

import "restops/pkg/enums"

// Enumerations accepted by the haproxy_* modules. Modules take either the
// member name ("HTTP") or the wire value ("http").
var (
	ProxyProtocol = enums.Register("haproxy_proxy_protocol",
		enums.M("HTTP", "http"),
		enums.M("TCP", "tcp"),
	)

	ParentType = enums.Register("haproxy_parent_type",
		enums.M("BACKEND", "backend"),
		enums.M("FRONTEND", "frontend"),
		enums.M("DEFAULTS", "defaults"),
		enums.M("PEERS", "peers"),
		enums.M("RING", "ring"),
	)

	EnableDisable = enums.Register("haproxy_enable_disable",
		enums.M("ENABLED", "enabled"),
		enums.M("DISABLED", "disabled"),
	)

	LoadBalancingAlgorithm = enums.Register("haproxy_balance_algorithm",
		enums.M("ROUNDROBIN", "roundrobin"),
		enums.M("STATIC_RR", "static-rr"),
		enums.M("LEASTCONN", "leastconn"),
		enums.M("FIRST", "first"),
		enums.M("SOURCE", "source"),
		enums.M("URI", "uri"),
		enums.M("URL_PARAM", "url_param"),
		enums.M("HDR", "hdr"),
		enums.M("RANDOM", "random"),
		enums.M("RDP_COOKIE", "rdp-cookie"),
		enums.M("HASH", "hash"),
	)

	AdvancedHealthCheck = enums.Register("haproxy_adv_check",
		enums.M("SSL_HELLO_CHK", "ssl-hello-chk"),
		enums.M("SMTPCHK", "smtpchk"),
		enums.M("LDAP_CHECK", "ldap-check"),
		enums.M("MYSQL_CHECK", "mysql-check"),
		enums.M("PGSQL_CHECK", "pgsql-check"),
		enums.M("TCP_CHECK", "tcp-check"),
		enums.M("REDIS_CHECK", "redis-check"),
		enums.M("HTTPCHK", "httpchk"),
	)

	HTTPMethod = enums.Register("haproxy_http_method",
		enums.M("HEAD", "HEAD"),
		enums.M("PUT", "PUT"),
		enums.M("POST", "POST"),
		enums.M("GET", "GET"),
		enums.M("TRACE", "TRACE"),
		enums.M("PATCH", "PATCH"),
		enums.M("OPTIONS", "OPTIONS"),
		enums.M("DELETE", "DELETE"),
	)

	SSLVersion = enums.Register("haproxy_ssl_version",
		enums.M("SSLv3", "SSLv3"),
		enums.M("TLSv1_0", "TLSv1.0"),
		enums.M("TLSv1_1", "TLSv1.1"),
		enums.M("TLSv1_2", "TLSv1.2"),
		enums.M("TLSv1_3", "TLSv1.3"),
	)

	Requirement = enums.Register("haproxy_requirement",
		enums.M("NONE", "none"),
		enums.M("REQUIRED", "required"),
		enums.M("OPTIONAL", "optional"),
	)

	StatsLevel = enums.Register("haproxy_stats_level",
		enums.M("USER", "user"),
		enums.M("OPERATOR", "operator"),
		enums.M("ADMIN", "admin"),
	)

	WebSocketProtocol = enums.Register("haproxy_ws_protocol",
		enums.M("AUTO", "auto"),
		enums.M("H1", "h1"),
		enums.M("H2", "h2"),
	)

	ConditionType = enums.Register("haproxy_condition",
		enums.M("IF", "if"),
		enums.M("UNLESS", "unless"),
	)

	LogLevel = enums.Register("haproxy_log_level",
		enums.M("EMERG", "emerg"),
		enums.M("ALERT", "alert"),
		enums.M("CRIT", "crit"),
		enums.M("ERR", "err"),
		enums.M("WARNING", "warning"),
		enums.M("NOTICE", "notice"),
		enums.M("INFO", "info"),
		enums.M("DEBUG", "debug"),
		enums.M("SILENT", "silent"),
	)

	RedirectType = enums.Register("haproxy_redirect_type",
		enums.M("LOCATION", "location"),
		enums.M("PREFIX", "prefix"),
		enums.M("SCHEME", "scheme"),
	)

	URINormalizer = enums.Register("haproxy_uri_normalizer",
		enums.M("FRAGMENT_ENCODE", "fragment-encode"),
		enums.M("FRAGMENT_STRIP", "fragment-strip"),
		enums.M("PATH_MERGE_SLASHES", "path-merge-slashes"),
		enums.M("PATH_STRIP_DOT", "path-strip-dot"),
		enums.M("PATH_STRIP_DOTDOT", "path-strip-dotdot"),
		enums.M("PERCENT_DECODE_UNRESERVED", "percent-decode-unreserved"),
		enums.M("PERCENT_TO_UPPERCASE", "percent-to-uppercase"),
		enums.M("QUERY_SORT_BY_NAME", "query-sort-by-name"),
	)

	HTTPRequestRuleType = enums.Register("haproxy_http_request_rule_type",
		enums.M("ADD_ACL", "add-acl"),
		enums.M("ADD_HEADER", "add-header"),
		enums.M("ALLOW", "allow"),
		enums.M("AUTH", "auth"),
		enums.M("CACHE_USE", "cache-use"),
		enums.M("CAPTURE", "capture"),
		enums.M("DEL_ACL", "del-acl"),
		enums.M("DEL_HEADER", "del-header"),
		enums.M("DEL_MAP", "del-map"),
		enums.M("DENY", "deny"),
		enums.M("DISABLE_L7_RETRY", "disable-l7-retry"),
		enums.M("DO_RESOLVE", "do-resolve"),
		enums.M("EARLY_HINT", "early-hint"),
		enums.M("LUA", "lua"),
		enums.M("NORMALIZE_URI", "normalize-uri"),
		enums.M("REDIRECT", "redirect"),
		enums.M("REJECT", "reject"),
		enums.M("REPLACE_HEADER", "replace-header"),
		enums.M("REPLACE_PATH", "replace-path"),
		enums.M("REPLACE_PATHQ", "replace-pathq"),
		enums.M("REPLACE_URI", "replace-uri"),
		enums.M("REPLACE_VALUE", "replace-value"),
		enums.M("RETURN", "return"),
		enums.M("SC_ADD_GPC", "sc-add-gpc"),
		enums.M("SC_INC_GPC", "sc-inc-gpc"),
		enums.M("SC_INC_GPC0", "sc-inc-gpc0"),
		enums.M("SC_INC_GPC1", "sc-inc-gpc1"),
		enums.M("SC_SET_GPT0", "sc-set-gpt0"),
		enums.M("SEND_SPOE_GROUP", "send-spoe-group"),
		enums.M("SET_BANDWIDTH_LIMIT", "set-bandwidth-limit"),
		enums.M("SET_DST", "set-dst"),
		enums.M("SET_DST_PORT", "set-dst-port"),
		enums.M("SET_HEADER", "set-header"),
		enums.M("SET_LOG_LEVEL", "set-log-level"),
		enums.M("SET_MAP", "set-map"),
		enums.M("SET_MARK", "set-mark"),
		enums.M("SET_METHOD", "set-method"),
		enums.M("SET_NICE", "set-nice"),
		enums.M("SET_PATH", "set-path"),
		enums.M("SET_PATHQ", "set-pathq"),
		enums.M("SET_PRIORITY_CLASS", "set-priority-class"),
		enums.M("SET_PRIORITY_OFFSET", "set-priority-offset"),
		enums.M("SET_QUERY", "set-query"),
		enums.M("SET_SRC", "set-src"),
		enums.M("SET_SRC_PORT", "set-src-port"),
		enums.M("SET_TIMEOUT", "set-timeout"),
		enums.M("SET_TOS", "set-tos"),
		enums.M("SET_URI", "set-uri"),
		enums.M("SET_VAR", "set-var"),
		enums.M("SILENT_DROP", "silent-drop"),
		enums.M("STRICT_MODE", "strict-mode"),
		enums.M("TARPIT", "tarpit"),
		enums.M("TRACK_SC0", "track-sc0"),
		enums.M("TRACK_SC1", "track-sc1"),
		enums.M("TRACK_SC2", "track-sc2"),
		enums.M("UNSET_VAR", "unset-var"),
		enums.M("USE_SERVICE", "use-service"),
		enums.M("WAIT_FOR_BODY", "wait-for-body"),
		enums.M("WAIT_FOR_HANDSHAKE", "wait-for-handshake"),
	)

	TransactionState = enums.Register("haproxy_transaction_state",
		enums.M("COMMITTED", "committed"),
		enums.M("CANCELLED", "cancelled"),
	)
)
