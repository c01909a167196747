// ircam-viewer - view and record Y16 infrared camera video
//  Copyright (C) 2026, the ircam-viewer authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"

	"github.com/ircam-tools/ircam-viewer/session"
)

const (
	dbusName = "org.ircam.viewer"
	dbusPath = "/org/ircam/viewer"
)

// service exposes recording control for headless sessions over
// d-bus. Calls are injected as events so the frame loop stays the
// only mutator.
type service struct {
	sess *session.Session
}

func startService(sess *session.Session) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := &service{
		sess: sess,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")

	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

// ToggleRawRecording starts or stops the raw CPTV recording.
func (s *service) ToggleRawRecording() *dbus.Error {
	s.sess.Inject(session.EvRecordRaw)
	return nil
}

// ToggleVideoRecording starts or stops the rendered IRV recording.
func (s *service) ToggleVideoRecording() *dbus.Error {
	s.sess.Inject(session.EvRecordVideo)
	return nil
}

// Stop ends the session.
func (s *service) Stop() *dbus.Error {
	s.sess.Inject(session.EvQuit)
	return nil
}
