package classify

// Built-in name tables. Exact names have the highest precedence and are
// checked in write, bulk-read, single-read order. The lists track the
// embedded-database APIs the linter is aimed at; project-specific names are
// added through configuration.

var defaultWrites = []string{
	"writeTxn",
	"writeTxnSync",
	"put",
	"putAll",
	"putSync",
	"putAllSync",
	"deleteAll",
	"deleteAllSync",
	"clear",
	"clearSync",
	"importJson",
	"importJsonRaw",
}

var defaultBulkReads = []string{
	"findAll",
	"getAll",
	"exportJson",
	"exportJsonRaw",
	"txn",
	"txnSync",
}

var defaultSingleReads = []string{
	"findFirst",
	"count",
	"getSize",
	"isEmpty",
	"isNotEmpty",
}

// Write keywords are checked before read keywords; first substring match
// wins. Both lists are matched against the lower-cased callee name.
var defaultWriteKeywords = []string{
	"write",
	"save",
	"insert",
	"update",
	"upsert",
	"delete",
	"remove",
	"put",
	"clear",
	"import",
	"persist",
	"flush",
}

var defaultReadKeywords = []string{
	"read",
	"find",
	"get",
	"query",
	"fetch",
	"load",
	"export",
	"select",
	"watch",
}

// Receiver identifiers recognized as I/O-ish, matched case-insensitively
// against the base receiver of a chained call.
var defaultReceivers = []string{
	"db",
	"database",
	"isar",
	"store",
	"storage",
	"txn",
	"conn",
	"collection",
	"repo",
	"repository",
}
