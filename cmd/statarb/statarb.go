package statarb

const Version = "v0.3.1"
