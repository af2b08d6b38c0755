// Package access defines the authorization boundary for business services.
//
// Services depend on the Guard interface and call AssertAccess before any
// side effect. The package ships a StaticGuard with wildcard permission
// scopes for tests and small deployments; production systems plug an
// external attribute-based policy evaluator behind the same interface.
package access
