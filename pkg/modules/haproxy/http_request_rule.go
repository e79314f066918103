package haproxy

import (
	"context"
	"fmt"
	"strings"

	"github.com/haproxytech/client-native/v6/models"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/client"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

type httpRequestRuleFields struct {
	Type                 string `yaml:"type" json:"type,omitempty" validate:"enum=haproxy_http_request_rule_type"`
	ACLFile              string `yaml:"acl_file" json:"acl_file,omitempty"`
	ACLKeyfmt            string `yaml:"acl_keyfmt" json:"acl_keyfmt,omitempty"`
	AuthRealm            string `yaml:"auth_realm" json:"auth_realm,omitempty"`
	BandwidthLimitLimit  string `yaml:"bandwidth_limit_limit" json:"bandwidth_limit_limit,omitempty"`
	BandwidthLimitName   string `yaml:"bandwidth_limit_name" json:"bandwidth_limit_name,omitempty"`
	BandwidthLimitPeriod string `yaml:"bandwidth_limit_period" json:"bandwidth_limit_period,omitempty"`
	CaptureID            *int64 `yaml:"capture_id" json:"capture_id,omitempty"`
	CaptureLen           int64  `yaml:"capture_len" json:"capture_len,omitempty"`
	CaptureSample        string `yaml:"capture_sample" json:"capture_sample,omitempty"`
	Cond                 string `yaml:"cond" json:"cond,omitempty" validate:"enum=haproxy_condition"`
	CondTest             string `yaml:"cond_test" json:"cond_test,omitempty"`
	DenyStatus           *int64 `yaml:"deny_status" json:"deny_status,omitempty"`
	Expr                 string `yaml:"expr" json:"expr,omitempty"`
	HdrFormat            string `yaml:"hdr_format" json:"hdr_format,omitempty"`
	HdrMatch             string `yaml:"hdr_match" json:"hdr_match,omitempty"`
	HdrMethod            string `yaml:"hdr_method" json:"hdr_method,omitempty"`
	HdrName              string `yaml:"hdr_name" json:"hdr_name,omitempty"`
	HintFormat           string `yaml:"hint_format" json:"hint_format,omitempty"`
	HintName             string `yaml:"hint_name" json:"hint_name,omitempty"`
	LogLevel             string `yaml:"log_level" json:"log_level,omitempty" validate:"enum=haproxy_log_level"`
	LuaAction            string `yaml:"lua_action" json:"lua_action,omitempty"`
	LuaParams            string `yaml:"lua_params" json:"lua_params,omitempty"`
	MapFile              string `yaml:"map_file" json:"map_file,omitempty"`
	MapKeyfmt            string `yaml:"map_keyfmt" json:"map_keyfmt,omitempty"`
	MapValuefmt          string `yaml:"map_valuefmt" json:"map_valuefmt,omitempty"`
	MarkValue            string `yaml:"mark_value" json:"mark_value,omitempty"`
	MethodFmt            string `yaml:"method_fmt" json:"method_fmt,omitempty"`
	NiceValue            int64  `yaml:"nice_value" json:"nice_value,omitempty"`
	Normalizer           string `yaml:"normalizer" json:"normalizer,omitempty" validate:"enum=haproxy_uri_normalizer"`
	NormalizerFull       bool   `yaml:"normalizer_full" json:"normalizer_full,omitempty"`
	NormalizerStrict     bool   `yaml:"normalizer_strict" json:"normalizer_strict,omitempty"`
	PathFmt              string `yaml:"path_fmt" json:"path_fmt,omitempty"`
	PathMatch            string `yaml:"path_match" json:"path_match,omitempty"`
	Protocol             string `yaml:"protocol" json:"protocol,omitempty" validate:"omitempty,oneof=ipv4 ipv6 IPV4 IPV6"`
	RedirCode            *int64 `yaml:"redir_code" json:"redir_code,omitempty"`
	RedirOption          string `yaml:"redir_option" json:"redir_option,omitempty"`
	RedirType            string `yaml:"redir_type" json:"redir_type,omitempty" validate:"enum=haproxy_redirect_type"`
	RedirValue           string `yaml:"redir_value" json:"redir_value,omitempty"`
	Resolvers            string `yaml:"resolvers" json:"resolvers,omitempty"`
	ReturnContent        string `yaml:"return_content" json:"return_content,omitempty"`
	ReturnContentType    string `yaml:"return_content_type" json:"return_content_type,omitempty"`
	ReturnStatusCode     *int64 `yaml:"return_status_code" json:"return_status_code,omitempty"`
}

// HTTPRequestRuleParams are the haproxy_http_request_rule arguments. The
// rule is identified by its index in the parent section.
type HTTPRequestRuleParams struct {
	ConnectionParams      `yaml:",inline"`
	ScopeParams           `yaml:",inline"`
	config.StateParams    `yaml:",inline"`
	ParentParams          `yaml:",inline"`
	httpRequestRuleFields `yaml:",inline"`

	Index *int64 `yaml:"index" validate:"omitempty,gte=0"`
}

// SetDefaults implements config.Defaulter.
func (p *HTTPRequestRuleParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
}

func (p *HTTPRequestRuleParams) model() (models.HTTPRequestRule, error) {
	f := p.httpRequestRuleFields
	f.Protocol = strings.ToLower(f.Protocol)
	err := parseEnums(
		enum(&f.Type, client.HTTPRequestRuleType),
		enum(&f.Cond, client.ConditionType),
		enum(&f.LogLevel, client.LogLevel),
		enum(&f.Normalizer, client.URINormalizer),
		enum(&f.RedirType, client.RedirectType),
	)
	if err != nil {
		return models.HTTPRequestRule{}, err
	}

	var rule models.HTTPRequestRule
	if err := toModel(f, &rule); err != nil {
		return models.HTTPRequestRule{}, fmt.Errorf("invalid http request rule: %w", err)
	}
	return rule, nil
}

func runHTTPRequestRule(ctx context.Context, env *module.Env, p *HTTPRequestRuleParams) (module.Result, error) {
	rule, err := p.model()
	if err != nil {
		return module.Result{}, err
	}
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	parent := p.parent()
	desired := client.Indexed[models.HTTPRequestRule]{Item: rule}
	found := false
	equal := false

	if p.Index != nil {
		desired.Index = *p.Index
		existing, err := c.GetHTTPRequestRule(ctx, parent, *p.Index)
		switch {
		case err == nil:
			found = true
			if equal, err = matches(env, desired.Item, existing.Item); err != nil {
				return module.Result{}, err
			}
		case !httpapi.IsNotFound(err):
			return module.Result{}, fmt.Errorf("[Get Rule] - Failed Get HA Proxy Rule (Index : %d, Parent : %s:%s): %w", *p.Index, parent.Name, parent.Type, err)
		}
	} else {
		rules, err := c.GetHTTPRequestRules(ctx, parent)
		if err != nil && !httpapi.IsNotFound(err) {
			return module.Result{}, fmt.Errorf("[Get Rules] - Failed Get HA Proxy Rules (Parent : %s:%s): %w", parent.Name, parent.Type, err)
		}
		desired.Index = int64(len(rules))
	}

	label := fmt.Sprintf("[Parent : %s, Index : %d]", parent, desired.Index)
	data := p.result(desired)
	scope := p.Scope()

	switch module.Decide(found, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged("Rule "+label+" Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateHTTPRequestRule(ctx, scope, parent, desired.Index, desired.Item); err != nil {
				return module.Result{}, fmt.Errorf("[Update Rule] - Failed Update HA Proxy Rule (Index : %d, Parent : %s:%s): %w", desired.Index, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Rule "+label+" Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateHTTPRequestRule(ctx, scope, parent, desired.Index, desired.Item); err != nil {
				return module.Result{}, fmt.Errorf("[Create Rule] - Failed Create HA Proxy Rule (Index : %d, Parent : %s:%s): %w", desired.Index, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Rule "+label+" Has Been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteHTTPRequestRule(ctx, scope, parent, desired.Index); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Rule] - Failed Delete HA Proxy Rule (Index : %d, Parent : %s:%s): %w", desired.Index, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Rule "+label+" Has Been Deleted", data), nil
	default:
		return module.Unchanged("Rule Not Found "+label, data), nil
	}
}
