// Package files names and discovers experiment log files.
//
// Subject logs follow the <base>_<subject><ext> convention, for example
// SequenceInterference_7.dat. Discovery lists the subjects present in a
// directory so a batch run can process every recorded subject:
//
//	discovery := files.NewDiscovery("/data/SI1")
//	subjects, err := discovery.FindSubjects(".", "SequenceInterference", ".dat")
package files
