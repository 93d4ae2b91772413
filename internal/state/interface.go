// internal/state/interface.go
package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetResume(uri string) (*ResumePosition, error)
	SaveResume(p ResumePosition)
	ForgetResume(uri string) error
	RecentResumes(limit int) ([]ResumePosition, error)
	GetVolume() (*VolumeState, error)
	SaveVolume(v VolumeState) error
	Flush() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
