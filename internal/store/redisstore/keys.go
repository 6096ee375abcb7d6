package redisstore

import "fmt"

// Key scheme mirrors a sensor:<kind>:<location>-style convention, re-keyed
// for the fertility domain: a
// hash per record holding its JSON body, plus a sorted set per collection
// ordering ids by their primary date for range queries.

func cycleHashKey(id string) string       { return fmt.Sprintf("cycle:record:%s", id) }
func cycleIndexKey() string               { return "cycle:index" }
func predictionHashKey(id string) string  { return fmt.Sprintf("prediction:record:%s", id) }
func predictionIndexKey() string          { return "prediction:index" }
func observationHashKey(id string) string { return fmt.Sprintf("observation:record:%s", id) }
func observationIndexKey() string         { return "observation:index" }
