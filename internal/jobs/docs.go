// Package jobs provides the background work of the order lifecycle service.
//
// # Available Jobs
//
// 1. RiderArrivalScheduler - one in-memory timer per order; when it fires the
// rider of that order is marked as arrived, which unlocks READY -> DELIVERED
// 2. OrderSimulationJob - while switched on, creates a random order every 3-8
// seconds using a github.com/robfig/cron/v3 random-interval schedule
//
// # Usage
//
//	arrivals := jobs.NewRiderArrivalScheduler(&markArrivedHandler, services.NewArrivalDelayPolicy(nil), nil, logger)
//	simulation := jobs.NewOrderSimulationJob(&createOrderHandler, hub, logger)
//	jobManager := jobs.NewJobManager(simulation, arrivals)
//
//	jobManager.StartAll(cfg.SimulationAutostart)
//	defer jobManager.StopAll()
//
// # Timers
//
// Arming an order that already has a pending arrival replaces it. Each armed
// timer carries a generation number; a timer that fires after being replaced
// or cancelled finds a different generation (or none) and does nothing.
// Arrivals are not persisted: a restart forgets them.
//
// # Error Handling
//
// - Arrival failures are logged and counted, never retried
// - The simulation stops itself when the order limit is reached and publishes
// order_limit_reached; id collisions and other failures are logged and the
// next tick tries again
package jobs
