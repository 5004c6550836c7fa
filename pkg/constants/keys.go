package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	AppKey    ContextKey = "app"
	PoolKey   ContextKey = "pool"
	TxKey     ContextKey = "tx"
	LoggerKey ContextKey = "logger"
	ParamsKey ContextKey = "params"
	TenantKey ContextKey = "tenant"
	ActorKey  ContextKey = "actor"
)

// Validate is the shared validator instance used by DTO Ok() methods.
var Validate = validator.New()
