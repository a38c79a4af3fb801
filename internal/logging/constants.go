package logging

// Field names shared by every component so log lines can be filtered consistently.
const (
	FieldFile        = "file_path"
	FieldAccount     = "account"
	FieldCounter     = "counter_account"
	FieldGrammar     = "grammar"
	FieldFingerprint = "fingerprint"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCount       = "count"
	FieldAccepted    = "accepted"
	FieldSkipped     = "skipped"
	FieldAccounts    = "accounts"
	FieldRunID       = "run_id"
	FieldOutputFile  = "output_file"
	FieldWorkers     = "workers"
	FieldPayee       = "payee"
	FieldSource      = "source"
)
