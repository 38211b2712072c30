package normalize

import "github.com/jurisnorm/jurisnorm/core"

// Monitor provides hooks to observe a normalization run.
// Implement this interface to surface progress to an operator while a
// bulk rewrite is in flight.
type Monitor interface {
	Start(request core.NormalizationRequest, affected int)
	DocumentUpdated(id core.ID, ecli string)
	DocumentFailed(id core.ID, ecli string, err error)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.NormalizationRequest, _ int)    {}
func (n *noopMonitor) DocumentUpdated(_ core.ID, _ string)         {}
func (n *noopMonitor) DocumentFailed(_ core.ID, _ string, _ error) {}
func (n *noopMonitor) Finish(_ *Result)                            {}
