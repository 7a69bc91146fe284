package service

import "errors"

// ErrNoOpenSession is returned by ClockOut when nothing is running.
var ErrNoOpenSession = errors.New("no open session found, clock in before clocking out")
