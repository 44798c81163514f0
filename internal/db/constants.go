package db

// timeLayout is the storage format for every DATETIME column. Values are
// always written in UTC with a fixed-width nanosecond fraction so that
// lexical order matches chronological order.
const timeLayout = "2006-01-02 15:04:05.000000000"
