// Package matches reads raw football-data.co.uk match files.
//
// Raw files are Latin-1 CSVs, one per league season. ReadFile decodes one
// file and tags its rows with a League column; Merge concatenates tables
// over the union of their columns. Parser turns rows into validated Result
// values carrying the date, the season derived from it, the teams, the
// score and the league. Downloader fetches missing season files.
package matches
