package main

import (
	"encoding/json"
	"fmt"
	"time"

	godbus "github.com/godbus/dbus/v5"

	dbussvc "github.com/cptspacemanspiff/gamma-daemon/internal/dbus"
)

type dbusClient struct {
	conn *godbus.Conn
	obj  godbus.BusObject
}

func newDBusClient() (*dbusClient, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	obj := conn.Object(dbussvc.BusName, dbussvc.ObjPath)
	return &dbusClient{conn: conn, obj: obj}, nil
}

func (c *dbusClient) GetCurrentState() (*dbussvc.CurrentState, error) {
	var jsonStr string
	err := c.obj.Call(dbussvc.IfaceName+".GetCurrentState", 0).Store(&jsonStr)
	if err != nil {
		return nil, fmt.Errorf("call GetCurrentState: %w", err)
	}
	var state dbussvc.CurrentState
	if err := json.Unmarshal([]byte(jsonStr), &state); err != nil {
		return nil, fmt.Errorf("decode current state: %w", err)
	}
	return &state, nil
}

func (c *dbusClient) GetHistory(from, to time.Time) (*dbussvc.History, error) {
	var jsonStr string
	err := c.obj.Call(dbussvc.IfaceName+".GetHistory", 0, from.Unix(), to.Unix()).Store(&jsonStr)
	if err != nil {
		return nil, fmt.Errorf("call GetHistory: %w", err)
	}
	var data dbussvc.History
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return &data, nil
}
