package health

// RunningMessage is reported by the root endpoint while the process is serving.
const RunningMessage = "CogniDoc API is running!"

// Service encapsulates health-related checks.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status returns the liveness payload. No upstream service is contacted.
func (s *Service) Status() map[string]string {
	return map[string]string{"status": RunningMessage}
}
