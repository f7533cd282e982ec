package app

import (
	"go-peval/internal/activity"
	"go-peval/internal/employee"
	"go-peval/internal/evaluationperiod"
	"go-peval/internal/messaging/kafka"
	"go-peval/internal/middleware"
	"go-peval/internal/periodmapping"
	"go-peval/internal/rbac"
	"go-peval/internal/rbac/infra"
	"go-peval/internal/selfevaluation"
	"go-peval/internal/stepapproval"
	"go-peval/internal/wbs"
)

// registerModules wires every feature package. Repositories share the GORM
// handle; services share the raw *sql.DB for transaction boundaries.
func (a *App) registerModules() error {
	outboxRepo := kafka.NewOutboxRepository(a.SQLDB)
	recorder := activity.NewRecorder(outboxRepo, a.Logger)

	// evaluation period
	periodRepo := evaluationperiod.NewRepository(a.GormDB)
	periodService := evaluationperiod.NewServiceWithOutbox(a.SQLDB, periodRepo, outboxRepo, recorder, a.Logger)
	periodHandler := evaluationperiod.NewHandler(periodService, a.Logger)

	// employee mapping
	mappingRepo := periodmapping.NewRepository(a.GormDB)
	mappingService := periodmapping.NewService(a.SQLDB, mappingRepo, periodRepo, recorder, a.Logger)
	mappingHandler := periodmapping.NewHandler(mappingService, a.Logger)

	// step approvals
	cascadeScope := stepapproval.CascadeScope(envOr("STEP_CASCADE_SCOPE", string(stepapproval.CascadeAllEvaluators)))
	approvalService := stepapproval.NewService(a.SQLDB, stepapproval.NewRepository(a.GormDB), mappingRepo, recorder, cascadeScope, a.Logger)
	approvalHandler := stepapproval.NewHandler(approvalService, a.Logger)

	// self-evaluations
	evaluationService := selfevaluation.NewService(
		a.SQLDB,
		selfevaluation.NewRepository(a.GormDB),
		periodRepo,
		mappingRepo,
		wbs.NewRepository(a.GormDB),
		a.Redis,
		recorder,
		a.Logger,
	)
	evaluationHandler := selfevaluation.NewHandler(evaluationService, a.Logger)

	// rbac
	enforcer, err := infra.NewEnforcer(envOr("RBAC_MODEL_PATH", "internal/rbac/infra/model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(a.GormDB), enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}
	rbacHandler := rbac.NewHandler(rbacService)

	// audit trail reads
	activityHandler := activity.NewHandler(activity.NewRepository(a.GormDB), employee.NewRepository(a.GormDB), a.Logger)

	evaluationperiod.RegisterCronRoutes(a.Router, periodHandler)
	periodmapping.RegisterRoutes(a.Router, mappingHandler)
	activity.RegisterRoutes(a.Router, activityHandler)
	rbac.RegisterRoutes(a.Router, rbacHandler)

	api := a.Router.Group("/api/v1")
	evaluationperiod.RegisterRoutes(api, periodHandler)
	stepapproval.RegisterRoutes(api, approvalHandler)
	selfevaluation.RegisterRoutes(api, evaluationHandler, middleware.Idempotency(a.Redis))

	return nil
}
