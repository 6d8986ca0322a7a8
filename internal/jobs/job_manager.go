package jobs

// JobManager owns the background work of the service.
type JobManager struct {
	simulation *OrderSimulationJob
	arrivals   *RiderArrivalScheduler
}

func NewJobManager(simulation *OrderSimulationJob, arrivals *RiderArrivalScheduler) *JobManager {
	return &JobManager{
		simulation: simulation,
		arrivals:   arrivals,
	}
}

// StartAll starts the simulation when autostart is set. Rider arrivals are
// armed per order and need no start.
func (jm *JobManager) StartAll(autostartSimulation bool) {
	if autostartSimulation {
		jm.simulation.Start()
	}
}

// StopAll stops the simulation and drops every pending rider arrival.
func (jm *JobManager) StopAll() {
	jm.simulation.Stop()
	jm.arrivals.Shutdown()
}

func (jm *JobManager) Simulation() *OrderSimulationJob {
	return jm.simulation
}
