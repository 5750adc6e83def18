package utils

const DateTimeLayout = "2006-01-02 15:04:05"
