//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/linea-app/linea/backend-go/internal/engine"
	"github.com/linea-app/linea/backend-go/internal/store"
	"github.com/linea-app/linea/backend-go/internal/svgpath"
)

var (
	memStore *store.MemStore
	eng      *engine.Engine
)

func main() {
	memStore = store.NewMemStore()
	eng = engine.NewEngine(memStore, svgpath.Resizer{})

	// Create the engine API object
	lineaEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	lineaEngine.Set("loadDocument", js.FuncOf(loadDocument))
	lineaEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	lineaEngine.Set("setScene", js.FuncOf(setScene))
	lineaEngine.Set("setSelection", js.FuncOf(setSelection))
	lineaEngine.Set("setViewport", js.FuncOf(setViewport))
	lineaEngine.Set("setSnapSettings", js.FuncOf(setSnapSettings))
	lineaEngine.Set("startDrag", js.FuncOf(startDrag))
	lineaEngine.Set("updateDrag", js.FuncOf(updateDrag))
	lineaEngine.Set("endDrag", js.FuncOf(endDrag))
	lineaEngine.Set("startResize", js.FuncOf(startResize))
	lineaEngine.Set("updateResize", js.FuncOf(updateResize))
	lineaEngine.Set("endResize", js.FuncOf(endResize))
	lineaEngine.Set("startRotate", js.FuncOf(startRotate))
	lineaEngine.Set("updateRotate", js.FuncOf(updateRotate))
	lineaEngine.Set("endRotate", js.FuncOf(endRotate))
	lineaEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	lineaEngine.Set("hitTest", js.FuncOf(hitTest))
	lineaEngine.Set("getSelection", js.FuncOf(getSelection))
	lineaEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	lineaEngine.Set("getElementBounds", js.FuncOf(getElementBounds))
	lineaEngine.Set("getSmartGuides", js.FuncOf(getSmartGuides))
	lineaEngine.Set("getDocument", js.FuncOf(getDocument))
	lineaEngine.Set("isGestureActive", js.FuncOf(isGestureActive))

	// Register on global scope
	js.Global().Set("lineaEngine", lineaEngine)

	// Signal that WASM is ready
	js.Global().Set("lineaWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	jsonData := args[0].String()
	if err := memStore.LoadDocument(jsonData); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}

	memStore.LoadSample(projectID)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setScene(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	memStore.SetScene(args[0].String())
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	if arr.Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	eng.SetViewport(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func setSnapSettings(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	var settings engine.SnapSettings
	if err := json.Unmarshal([]byte(args[0].String()), &settings); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	memStore.SetSnapSettings(settings)
	return nil
}

func startDrag(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.StartDrag(args[0].Float(), args[1].Float()))
}

func updateDrag(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.UpdateDrag(args[0].Float(), args[1].Float())
	return nil
}

func endDrag(this js.Value, args []js.Value) interface{} {
	eng.EndDrag()
	return nil
}

func startResize(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	aspectLocked := false
	if len(args) > 3 {
		aspectLocked = args[3].Truthy()
	}
	handle := engine.Handle(args[2].String())
	return js.ValueOf(eng.StartResize(args[0].Float(), args[1].Float(), handle, aspectLocked))
}

func updateResize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	shiftKey := false
	if len(args) > 2 {
		shiftKey = args[2].Truthy()
	}
	eng.UpdateResize(args[0].Float(), args[1].Float(), shiftKey)
	return nil
}

func endResize(this js.Value, args []js.Value) interface{} {
	eng.EndResize()
	return nil
}

func startRotate(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	handle := engine.Handle("")
	if len(args) > 2 {
		handle = engine.Handle(args[2].String())
	}
	return js.ValueOf(eng.StartRotate(args[0].Float(), args[1].Float(), handle))
}

func updateRotate(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.UpdateRotate(args[0].Float(), args[1].Float())
	return nil
}

func endRotate(this js.Value, args []js.Value) interface{} {
	eng.EndRotate()
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	eng.Tick()
	return nil
}

// --- Query Handlers ---

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(eng.HitTest(x, y))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	ids := eng.Selection()
	out, _ := json.Marshal(ids)
	return js.ValueOf(string(out))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SelectionBoundsJSON())
}

func getElementBounds(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("null")
	}
	return js.ValueOf(eng.ElementBoundsJSON(args[0].String()))
}

func getSmartGuides(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(memStore.SmartGuidesJSON())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(memStore.DocumentJSON())
}

func isGestureActive(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GestureActive())
}
