package resources

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = time.Millisecond * 500

// watchDir calls callback once things in directory settle after a change.
// Closing the returned channel stops the watch.
func watchDir(directory string, callback func()) (chan<- struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = watcher.Add(directory)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	stop := make(chan struct{})
	reload := make(chan struct{})
	go scheduleReload(reload, stop, callback)
	go handleWatcher(watcher, reload, stop)
	return stop, nil
}

func handleWatcher(watcher *fsnotify.Watcher, reload chan<- struct{}, stop <-chan struct{}) {
	defer watcher.Close()
	for {
		select {
		case <-stop:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write | fsnotify.Remove | fsnotify.Create | fsnotify.Rename) {
				select {
				case reload <- struct{}{}:
				case <-stop:
					return
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("resource watcher error: %v\n", err)
		}
	}
}

func scheduleReload(reload <-chan struct{}, stop <-chan struct{}, callback func()) {
	var timer *time.Timer = nil
	var c <-chan time.Time = nil
	for {
		select {
		case <-stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case <-reload:
			if timer != nil {
				timer.Reset(reloadDelay)
			} else {
				timer = time.NewTimer(reloadDelay)
				c = timer.C
			}

		case <-c:
			c = nil
			timer = nil
			callback()
		}
	}
}
