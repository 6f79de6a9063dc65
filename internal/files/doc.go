// Package files locates the raw season CSVs and report artefacts the
// pipeline reads.
//
// Discovery resolves relative directories against a base path so commands
// behave the same wherever they are launched from:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	csvs, err := discovery.FindCSVFiles("premier_league")
package files
